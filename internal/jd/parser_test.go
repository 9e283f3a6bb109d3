package jd

import (
	"slices"
	"testing"
)

func TestParseHintedLines(t *testing.T) {
	text := `Senior Backend Engineer

Requirements: strong Python and PostgreSQL experience is required
Nice to have: familiarity with Kubernetes is a plus

We ship every week.`

	parsed := NewParser(nil).Parse(text)

	if !slices.Contains(parsed.MustSkills, "python") || !slices.Contains(parsed.MustSkills, "postgresql") {
		t.Errorf("Parse() must = %v, want python and postgresql", parsed.MustSkills)
	}
	if !slices.Contains(parsed.NiceSkills, "kubernetes") {
		t.Errorf("Parse() nice = %v, want kubernetes", parsed.NiceSkills)
	}
	if slices.Contains(parsed.NiceSkills, "python") {
		t.Errorf("Parse() nice = %v, must-have skill leaked into nice list", parsed.NiceSkills)
	}
}

func TestParseFallsBackToWholeText(t *testing.T) {
	parsed := NewParser(nil).Parse("We build data pipelines in Python with Airflow on AWS.")

	for _, want := range []string{"airflow", "aws", "python"} {
		if !slices.Contains(parsed.MustSkills, want) {
			t.Errorf("Parse() must = %v, want %q from whole-text fallback", parsed.MustSkills, want)
		}
	}
}

func TestParseSkillsSorted(t *testing.T) {
	parsed := NewParser(nil).Parse("required: terraform, docker and ansible")
	if !slices.IsSorted(parsed.MustSkills) {
		t.Errorf("Parse() must = %v, want sorted output", parsed.MustSkills)
	}
}

func TestParseQualificationsAndCertifications(t *testing.T) {
	text := `Qualifications: Bachelor degree in CS or equivalent
AWS Certified Solutions Architect Associate required
Candidates should present a portfolio of projects`

	parsed := NewParser(nil).Parse(text)

	if len(parsed.Qualifications) == 0 {
		t.Error("Parse() qualifications is empty, want the degree line")
	}
	if len(parsed.Certifications) == 0 {
		t.Error("Parse() certifications is empty, want the aws mention")
	}
	if !parsed.RequiresProjects {
		t.Error("Parse() requiresProjects = false, want true")
	}
}

func TestParseEmptyText(t *testing.T) {
	parsed := NewParser(nil).Parse("")

	if len(parsed.MustSkills) != 0 || len(parsed.NiceSkills) != 0 {
		t.Errorf("Parse() = %+v, want empty skill lists for empty text", parsed)
	}
	if parsed.RequiresProjects {
		t.Error("Parse() requiresProjects = true for empty text")
	}
}

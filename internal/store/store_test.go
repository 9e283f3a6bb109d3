package store

import (
	"testing"

	"resumefit/internal/types"
)

func TestSaveAndLookup(t *testing.T) {
	s := New()

	job := s.SaveJob(types.JobRequirement{Title: "Engineer"})
	if job.ID == 0 {
		t.Fatal("SaveJob() did not assign an ID")
	}
	resume := s.SaveResume(types.ResumeDocument{Text: "resume text"})
	if resume.ID == 0 {
		t.Fatal("SaveResume() did not assign an ID")
	}
	if resume.CreatedAt.IsZero() {
		t.Error("SaveResume() did not stamp CreatedAt")
	}

	gotJob, err := s.Job(job.ID)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if gotJob.Title != "Engineer" {
		t.Errorf("Job() title = %q", gotJob.Title)
	}
	if _, err := s.Job(999); err == nil {
		t.Error("Job() error = nil for unknown ID")
	}
	if _, err := s.Resume(999); err == nil {
		t.Error("Resume() error = nil for unknown ID")
	}
}

func TestRecordEvaluationAppendOnly(t *testing.T) {
	s := New()
	job := s.SaveJob(types.JobRequirement{Title: "Engineer"})
	resume := s.SaveResume(types.ResumeDocument{Text: "text"})

	first, err := s.RecordEvaluation(types.Evaluation{JobID: job.ID, ResumeID: resume.ID, Score: 70})
	if err != nil {
		t.Fatalf("RecordEvaluation() error = %v", err)
	}
	second, err := s.RecordEvaluation(types.Evaluation{JobID: job.ID, ResumeID: resume.ID, Score: 80})
	if err != nil {
		t.Fatalf("RecordEvaluation() error = %v", err)
	}

	if first.ID == second.ID {
		t.Error("RecordEvaluation() reused an ID, want append-only records")
	}
	if got := len(s.EvaluationsForJob(job.ID)); got != 2 {
		t.Errorf("EvaluationsForJob() len = %d, want 2", got)
	}
}

func TestRecordEvaluationRequiresSavedRecords(t *testing.T) {
	s := New()
	job := s.SaveJob(types.JobRequirement{Title: "Engineer"})

	if _, err := s.RecordEvaluation(types.Evaluation{JobID: job.ID, ResumeID: 42}); err == nil {
		t.Error("RecordEvaluation() error = nil for unsaved resume")
	}
	if _, err := s.RecordEvaluation(types.Evaluation{JobID: 42, ResumeID: 1}); err == nil {
		t.Error("RecordEvaluation() error = nil for unknown job")
	}
}

func TestEvaluationsForJobSorted(t *testing.T) {
	s := New()
	job := s.SaveJob(types.JobRequirement{Title: "Engineer"})
	r1 := s.SaveResume(types.ResumeDocument{Text: "a"})
	r2 := s.SaveResume(types.ResumeDocument{Text: "b"})

	s.RecordEvaluation(types.Evaluation{JobID: job.ID, ResumeID: r1.ID, Score: 55.5}) //nolint:errcheck
	s.RecordEvaluation(types.Evaluation{JobID: job.ID, ResumeID: r2.ID, Score: 91.0}) //nolint:errcheck

	evals := s.EvaluationsForJob(job.ID)
	if len(evals) != 2 || evals[0].Score != 91.0 {
		t.Errorf("EvaluationsForJob() = %+v, want best score first", evals)
	}
}

func TestStats(t *testing.T) {
	s := New()
	s.SaveJob(types.JobRequirement{Title: "Engineer"})
	s.SaveResume(types.ResumeDocument{Text: "text"})

	stats := s.Stats()
	if stats["jobs"] != 1 || stats["resumes"] != 1 || stats["evaluations"] != 0 {
		t.Errorf("Stats() = %v", stats)
	}
}

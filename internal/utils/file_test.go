package utils

import "testing"

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "bytes", size: 512, want: "512 B"},
		{name: "kilobytes", size: 2048, want: "2.0 KB"},
		{name: "megabytes", size: 1 << 20, want: "1.0 MB"},
		{name: "fractional megabytes", size: 1536 * 1024, want: "1.5 MB"},
		{name: "gigabytes", size: 3 << 30, want: "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFileSize(tt.size); got != tt.want {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"resume.txt", true},
		{"resume.md", true},
		{"RESUME.TXT", true},
		{"resume.pdf", false},
		{"resume", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsTextFile(tt.filename); got != tt.want {
				t.Errorf("IsTextFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

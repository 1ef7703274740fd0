package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{256 * 1024 * 1024, "256.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{5 * 1024 * 1024 * 1024 * 1024 / 2, "2.50 TB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h 3m 4s"},
	}

	for _, tt := range tests {
		if result := formatDuration(tt.input); result != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"100", 100},
		{"100B", 100},
		{"1KB", 1024},
		{"1.5KB", 1536},
		{"1KiB", 1024},
		{"256MB", 256 * 1024 * 1024},
		{"256 MiB", 256 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"1TB", 1024 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		result, err := ParseBytes(tt.input)
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, input := range []string{"invalid", "", "-5MB", "MB"} {
		if _, err := ParseBytes(input); err == nil {
			t.Errorf("ParseBytes(%q): expected error", input)
		}
	}
}

func TestReporterWriter(t *testing.T) {
	reporter := NewReporter(Options{TotalSize: 10, Output: &bytes.Buffer{}})

	var dst bytes.Buffer
	w := reporter.Writer(&dst)
	w.Write([]byte("hello"))
	w.Write([]byte("!!"))

	if reporter.Written() != 7 {
		t.Errorf("expected 7 bytes recorded, got %d", reporter.Written())
	}
	if dst.String() != "hello!!" {
		t.Errorf("expected writes forwarded, got %q", dst.String())
	}
}

func TestReporterStartStop(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{
		TotalSize:      1024 * 1024,
		Resources:      3,
		Output:         &out,
		UpdateInterval: 10 * time.Millisecond,
	})

	reporter.Start()
	reporter.Add(512 * 1024)
	time.Sleep(50 * time.Millisecond)
	reporter.Stop()
	reporter.Stop()

	output := out.String()
	if !strings.Contains(output, "Streaming 3 resources | Total size: 1.00 MB") {
		t.Errorf("expected header, got %q", output)
	}
	if !strings.Contains(output, "Wrote 512.00 KB") {
		t.Errorf("expected final status, got %q", output)
	}
}

func TestReporterUnknownSize(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{Output: &out, UpdateInterval: 5 * time.Millisecond})

	reporter.Start()
	reporter.Add(10)
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()

	output := out.String()
	if !strings.Contains(output, "Total size: unknown") {
		t.Errorf("expected unknown size in header, got %q", output)
	}
	if strings.Contains(output, "ETA") {
		t.Errorf("expected no ETA without a total size, got %q", output)
	}
}

func TestReporterStopWithoutStart(t *testing.T) {
	reporter := NewReporter(Options{Output: &bytes.Buffer{}})
	reporter.Stop()
}

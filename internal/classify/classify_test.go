package classify

import (
	"testing"
)

func TestClassifyKnownExtensions(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		path string
		want string
	}{
		{"photo.jpg", "images"},
		{"photo.JPG", "images"},
		{"scan.TIFF", "images"},
		{"clip.mkv", "videos"},
		{"song.FLAC", "audio"},
		{"report.pdf", "documents"},
		{"slides.pptx", "documents"},
		{"budget.xlsx", "spreadsheets"},
		{"data.csv", "spreadsheets"},
		{"bundle.tar", "archives"},
		{"bundle.GZ", "archives"},
		{"setup.exe", "software"},
		{"disc.iso", "software"},
	}
	for _, tc := range cases {
		if got := table.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestClassifyFallback(t *testing.T) {
	table := DefaultTable()

	for _, path := range []string{"notes", "mystery.xyz", "archive.tar.unknown", ".bashrc"} {
		if got := table.Classify(path); got != Fallback {
			t.Errorf("Classify(%q) = %q, want %q", path, got, Fallback)
		}
	}
}

func TestClassifyUsesBasename(t *testing.T) {
	table := DefaultTable()

	if got := table.Classify("/home/user/downloads/photo.png"); got != "images" {
		t.Fatalf("Classify with directory components = %q, want images", got)
	}
}

func TestNamesPreserveOrder(t *testing.T) {
	table := DefaultTable()

	want := []string{"images", "videos", "audio", "documents", "spreadsheets", "archives", "software", "others"}
	got := table.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewTableAppliesOverrides(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"images": {".png", "webp"},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if got := table.Classify("pic.webp"); got != "images" {
		t.Fatalf("Classify(pic.webp) = %q, want images", got)
	}
	// The override replaced the default set, so .jpg no longer maps.
	if got := table.Classify("pic.jpg"); got != Fallback {
		t.Fatalf("Classify(pic.jpg) after override = %q, want %q", got, Fallback)
	}
}

func TestNewTableRejectsUnknownCategory(t *testing.T) {
	if _, err := NewTable(map[string][]string{"ebooks": {".epub"}}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestNewTableRejectsFallbackOverride(t *testing.T) {
	if _, err := NewTable(map[string][]string{Fallback: {".any"}}); err == nil {
		t.Fatal("expected error when overriding the fallback category")
	}
}

func TestFirstMatchWinsOnOverlap(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"images": {".png"},
		"videos": {".png", ".mp4"},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if got := table.Classify("frame.png"); got != "images" {
		t.Fatalf("overlapping extension resolved to %q, want images", got)
	}
}

package folio

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World! 2024", "hello-world-2024"},
		{"  My Post  ", "my-post"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER CASE", "upper-case"},
		{"___", ""},
		{"", ""},
		{"--leading and trailing--", "leading-and-trailing"},
		{"a!!!b", "a-b"},
		{"Ünïcödé tïtle", "n-c-d-t-tle"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, World! 2024", "  spaces  ", "a!!!b", "", "---", "MiXeD CaSe 42",
		"tabs\tand\nnewlines", "dots.every.where", "slash/path/name",
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugifyHygiene(t *testing.T) {
	inputs := []string{
		"!leading punctuation", "trailing punctuation!", "UPPER", "a  b",
		"--x--", "\t\n", "100% Legit", "C'est la vie",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Slugify(%q) = %q has a leading or trailing hyphen", in, got)
		}
		if got != strings.ToLower(got) {
			t.Errorf("Slugify(%q) = %q contains uppercase", in, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Slugify(%q) = %q contains a hyphen run", in, got)
		}
	}
}

func TestSlugFieldAutoMode(t *testing.T) {
	f := NewSlugField("")
	if f.Manual() {
		t.Fatal("new session should start in auto mode")
	}
	f.SetTitle("Hello, World! 2024")
	if f.Slug() != "hello-world-2024" {
		t.Errorf("Slug = %q, want %q", f.Slug(), "hello-world-2024")
	}
	f.SetTitle("New Title")
	if f.Slug() != "new-title" {
		t.Errorf("auto mode should track title edits, got %q", f.Slug())
	}
}

func TestSlugFieldManualSwitchIsPermanent(t *testing.T) {
	f := NewSlugField("")
	f.SetTitle("First")
	f.SetSlug("my-own-slug")
	if !f.Manual() {
		t.Fatal("direct slug edit should switch to manual")
	}
	f.SetTitle("Completely Different Title")
	if f.Slug() != "my-own-slug" {
		t.Errorf("title edits must not touch a manual slug, got %q", f.Slug())
	}
}

func TestSlugFieldExistingPostStartsManual(t *testing.T) {
	f := NewSlugField("stored-slug")
	if !f.Manual() {
		t.Fatal("editing an existing post should start in manual mode")
	}
	f.SetTitle("Renamed")
	if f.Slug() != "stored-slug" {
		t.Errorf("stored slug must survive title edits, got %q", f.Slug())
	}
}

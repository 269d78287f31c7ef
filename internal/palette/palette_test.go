package palette

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolve_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()
	s := DefaultSet()

	want := s.Category.Resolve("Chat features")
	for _, label := range []string{"chat features", "  Chat Features  ", "CHAT FEATURES"} {
		if got := s.Category.Resolve(label); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", label, got.Hex(), want.Hex())
		}
	}
	if want.Hex() != "#4a90e2" {
		t.Errorf("Chat features = %s, want #4a90e2", want.Hex())
	}
}

func TestResolve_UnknownIsDefault(t *testing.T) {
	t.Parallel()
	s := DefaultSet()

	for _, label := range []string{"", "Teleportation", "   "} {
		if got := s.Category.Resolve(label); got != Default {
			t.Errorf("Resolve(%q) = %s, want default %s", label, got.Hex(), Default.Hex())
		}
	}
	var nilResolver *Resolver
	if got := nilResolver.Resolve("Meeting"); got != Default {
		t.Errorf("nil Resolve = %s, want default", got.Hex())
	}
}

func TestResolve_QuarterSuffix(t *testing.T) {
	t.Parallel()
	s := DefaultSet()

	q2 := s.Quarter.Resolve("Q2")
	if q2 == Default {
		t.Fatal("Q2 resolved to default")
	}
	if got := s.Quarter.Resolve("2023 Q2"); got != q2 {
		t.Errorf("Resolve(2023 Q2) = %s, want %s", got.Hex(), q2.Hex())
	}
	if got := s.Quarter.Resolve("2023 Q9"); got != Default {
		t.Errorf("Resolve(2023 Q9) = %s, want default", got.Hex())
	}
	// Suffix matching is quarter-only.
	if got := s.Category.Resolve("Zoom Meeting"); got != Default {
		t.Errorf("category suffix lookup = %s, want default", got.Hex())
	}
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#F5A623", Color{0xF5, 0xA6, 0x23}, false},
		{"f5a623", Color{0xF5, 0xA6, 0x23}, false},
		{"#fff", Color{0xFF, 0xFF, 0xFF}, false},
		{"#zzzzzz", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeat(t *testing.T) {
	t.Parallel()
	base := MustParseHex("#D32F2F")

	if got := Heat(base, 0); got != MustParseHex(surfaceHex) {
		t.Errorf("Heat(0) = %s, want surface", got.Hex())
	}
	if got := Heat(base, 1); got != base {
		t.Errorf("Heat(1) = %s, want %s", got.Hex(), base.Hex())
	}
	if got := Heat(base, 3); got != base {
		t.Errorf("Heat(3) clamps to base, got %s", got.Hex())
	}
	mid := Heat(base, 0.5)
	if mid == base || mid == MustParseHex(surfaceHex) {
		t.Errorf("Heat(0.5) = %s, want a blend", mid.Hex())
	}
}

func TestLoadSet_Overrides(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "palette.toml")
	content := `
[category]
"Chat features" = "#112233"
Robotics = "#445566"

[team]
Frontend = "#000000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSet(path)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if got := s.Category.Resolve("chat features").Hex(); got != "#112233" {
		t.Errorf("override Chat features = %s, want #112233", got)
	}
	if got := s.Category.Resolve("robotics").Hex(); got != "#445566" {
		t.Errorf("new label robotics = %s, want #445566", got)
	}
	if got := s.Category.Resolve("Meeting").Hex(); got != "#f5a623" {
		t.Errorf("untouched Meeting = %s, want #f5a623", got)
	}
	if got := s.Team.Resolve("frontend").Hex(); got != "#000000" {
		t.Errorf("override Frontend = %s, want #000000", got)
	}
}

func TestLoadSet_OverrideReplacesEverySpelling(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "palette.toml")
	if err := os.WriteFile(path, []byte("[category]\nsecurity = \"#000000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSet(path)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	for _, label := range []string{"Security", "security", "SECURITY", " Security "} {
		if got := s.Category.Resolve(label).Hex(); got != "#000000" {
			t.Errorf("Resolve(%q) = %s, want #000000", label, got)
		}
	}
	if got := s.Category.Len(); got != len(categoryHex) {
		t.Errorf("Len() = %d, want %d (override replaces, not adds)", got, len(categoryHex))
	}
}

func TestLoadSet_CollidingLabels(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "palette.toml")
	content := "[category]\nSecurity = \"#000000\"\nSECURITY = \"#ffffff\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSet(path)
	if err == nil || !strings.Contains(err.Error(), "name the same entry") {
		t.Errorf("LoadSet(colliding) error = %v, want same-entry error", err)
	}
}

func TestLoadSet_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[category]\nChat = \"#nothex\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSet(bad); err == nil || !strings.Contains(err.Error(), "category palette") {
		t.Errorf("LoadSet(bad hex) error = %v, want category palette error", err)
	}

	if _, err := LoadSet(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadSet(missing) expected error")
	}

	s, err := LoadSet("")
	if err != nil || s.Category.Len() == 0 {
		t.Errorf("LoadSet(\"\") = %v, %v; want built-ins", s, err)
	}
}

package zone

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestParseCategory verifies the total string-to-category mapping
func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"ROYAL", Royal},
		{"royal", Royal},
		{"BLACK", Black},
		{"AVALON", Avalon},
		{"avalon", Avalon},
		{"UNKNOWN", Unknown},
		{"", Unknown},
		{"garbage", Unknown},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestCategoryString verifies wire forms, including out-of-range values
func TestCategoryString(t *testing.T) {
	if Royal.String() != "ROYAL" {
		t.Errorf("Royal.String() = %q", Royal.String())
	}
	if Category(200).String() != "UNKNOWN" {
		t.Errorf("out-of-range category String() = %q, want UNKNOWN", Category(200).String())
	}
}

// TestNewVocabulary verifies normalization, order, and duplicate handling
func TestNewVocabulary(t *testing.T) {
	v := NewVocabulary([]Entry{
		{Name: "Martlock", Category: Royal},
		{Name: "  qiitun-ozos ", Category: Avalon},
		{Name: "MARTLOCK", Category: Black}, // duplicate, dropped
		{Name: "   ", Category: Royal},      // invalid, dropped
	})

	if v.Size() != 2 {
		t.Fatalf("Size = %d, want 2", v.Size())
	}
	want := []string{"MARTLOCK", "QIITUN-OZOS"}
	if !reflect.DeepEqual(v.Names(), want) {
		t.Errorf("Names = %v, want %v", v.Names(), want)
	}
	// First entry for an id wins, including its category
	if v.Classify("MARTLOCK") != Royal {
		t.Errorf("Classify(MARTLOCK) = %v, want Royal", v.Classify("MARTLOCK"))
	}
}

// TestClassifyUnknown verifies ids outside the vocabulary map to Unknown
func TestClassifyUnknown(t *testing.T) {
	v := NewVocabulary([]Entry{{Name: "Martlock", Category: Royal}})
	if got := v.Classify("NOWHERE"); got != Unknown {
		t.Errorf("Classify(NOWHERE) = %v, want Unknown", got)
	}
	if v.Contains("NOWHERE") {
		t.Error("Contains(NOWHERE) = true")
	}
}

// TestLoadFile verifies the YAML file shape and case-insensitive categories
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	content := `
zones:
  - name: Martlock
    category: royal
  - name: Qiitun-Ozos
    category: AVALON
  - name: Deathwisp Sink
    category: black
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if v.Size() != 3 {
		t.Fatalf("Size = %d, want 3", v.Size())
	}
	if v.Classify("QIITUN-OZOS") != Avalon {
		t.Errorf("Classify(QIITUN-OZOS) = %v, want Avalon", v.Classify("QIITUN-OZOS"))
	}
	if v.Classify("DEATHWISP SINK") != Black {
		t.Errorf("Classify(DEATHWISP SINK) = %v, want Black", v.Classify("DEATHWISP SINK"))
	}
}

// TestLoadFileMissing verifies a missing file errors
func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile on missing file should fail")
	}
}

// TestNamesCopy verifies callers cannot mutate the vocabulary's order
func TestNamesCopy(t *testing.T) {
	v := NewVocabulary([]Entry{{Name: "A"}, {Name: "B"}})
	names := v.Names()
	names[0] = "MUTATED"
	if v.Names()[0] != "A" {
		t.Error("Names() exposes internal slice")
	}
}

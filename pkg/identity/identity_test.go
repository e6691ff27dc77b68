package identity

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNormalize verifies trimming and case folding
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Qiitun-Ozos", "QIITUN-OZOS"},
		{"already canonical", "MARTLOCK", "MARTLOCK"},
		{"leading and trailing space", "  Fort Sterling  ", "FORT STERLING"},
		{"tabs", "\tLymhurst\t", "LYMHURST"},
		{"inner spaces preserved", "Fort  Sterling", "FORT  STERLING"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestValid verifies the usable-id check
func TestValid(t *testing.T) {
	if !Valid("Thetford") {
		t.Error("Valid(\"Thetford\") = false, want true")
	}
	if Valid("") {
		t.Error("Valid(\"\") = true, want false")
	}
	if Valid("  \t ") {
		t.Error("Valid on whitespace-only = true, want false")
	}
}

// TestNormalizeIdempotent uses property-based testing: normalizing an
// already normalized id must be a no-op for any input
func TestNormalizeIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			once := Normalize(s)
			return Normalize(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("normalized ids carry no edge whitespace", prop.ForAll(
		func(s string) bool {
			id := Normalize(s)
			return id == "" || (id[0] != ' ' && id[len(id)-1] != ' ')
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

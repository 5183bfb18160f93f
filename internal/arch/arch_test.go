package arch

import (
	"reflect"
	"strings"
	"testing"
)

var baseFlags = []string{
	"-O3",
	"-DNDEBUG",
	"-std=c++17",
	"--generate-code=arch=compute_80,code=sm_80",
	"-Xcompiler=-fPIC",
}

func TestResolveFlags_Substitution(t *testing.T) {
	got := ResolveFlags(baseFlags, "75")

	if len(got) != len(baseFlags) {
		t.Fatalf("ResolveFlags() returned %d flags, want %d", len(got), len(baseFlags))
	}

	changed := 0
	for i := range got {
		if got[i] != baseFlags[i] {
			changed++
			if !strings.Contains(got[i], "compute_75") || !strings.Contains(got[i], "sm_75") {
				t.Errorf("substituted flag %q missing compute_75/sm_75", got[i])
			}
		}
	}
	if changed != 1 {
		t.Errorf("ResolveFlags() changed %d entries, want exactly 1", changed)
	}
}

func TestResolveFlags_DoesNotMutateBase(t *testing.T) {
	base := make([]string, len(baseFlags))
	copy(base, baseFlags)

	ResolveFlags(base, "50")

	if !reflect.DeepEqual(base, baseFlags) {
		t.Errorf("ResolveFlags() mutated base flags: %v", base)
	}
}

func TestResolveFlags_NoMatch(t *testing.T) {
	base := []string{"-O3", "-std=c++17"}

	got := ResolveFlags(base, "75")

	if !reflect.DeepEqual(got, base) {
		t.Errorf("ResolveFlags() with no code-generation entry = %v, want base unchanged", got)
	}
}

func TestResolveFlags_PreservesOrder(t *testing.T) {
	got := ResolveFlags(baseFlags, "60")

	for i, flag := range got {
		if i == 3 {
			continue // substituted entry
		}
		if flag != baseFlags[i] {
			t.Errorf("flag %d = %q, want %q", i, flag, baseFlags[i])
		}
	}
	if got[3] != "--generate-code=arch=compute_60,code=sm_60" {
		t.Errorf("substituted entry = %q", got[3])
	}
}

func TestGenerateCodeFlag(t *testing.T) {
	got := GenerateCodeFlag("75")
	want := "--generate-code=arch=compute_75,code=sm_75"
	if got != want {
		t.Errorf("GenerateCodeFlag(75) = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	known := []string{"50", "60", "61", "70", "75", "80"}

	tests := []struct {
		name    string
		token   string
		want    []string
		wantErr bool
	}{
		{"single", "75", []string{"75"}, false},
		{"all", All, known, false},
		{"unknown", "99", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.token, known)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParse_AllReturnsCopy(t *testing.T) {
	known := []string{"70", "80"}

	got, err := Parse(All, known)
	if err != nil {
		t.Fatal(err)
	}

	got[0] = "mutated"
	if known[0] != "70" {
		t.Error("Parse(all) returned the known slice itself, want a copy")
	}
}

package derived

import "testing"

func TestDefaultPolicy(t *testing.T) {
	p, err := NewPolicy(DefaultRules(2026))
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	tests := []struct {
		code        string
		wantKind    Kind
		wantSubtype string
	}{
		{"1.15/2026", KindService, ""},
		{"1.14/2026", KindConsultation, SubtypeConsulting},
		{"1.16/2026", KindConsultation, SubtypeTraining},
		{"1.4/2026", KindNone, ""},
		{"1.15/2025", KindNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := p.Lookup(tt.code)
			if r.Kind != tt.wantKind || r.Subtype != tt.wantSubtype {
				t.Errorf("Lookup(%q) = %+v, want %s/%s", tt.code, r, tt.wantKind, tt.wantSubtype)
			}
			if p.Recognized(tt.code) != (tt.wantKind != KindNone) {
				t.Errorf("Recognized(%q) mismatch", tt.code)
			}
		})
	}
}

func TestNewPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		rules map[string]Rule
	}{
		{"empty code", map[string]Rule{" ": {Kind: KindService}}},
		{"unknown kind", map[string]Rule{"X": {Kind: "audit"}}},
		{"consultation without subtype", map[string]Rule{"X": {Kind: KindConsultation}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPolicy(tt.rules); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFields_Supplied(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		kind   Kind
		want   bool
	}{
		{"nothing", Fields{}, KindService, false},
		{"blank strings", Fields{Topic: "  ", Organizations: []string{"", " "}}, KindService, false},
		{"topic", Fields{Topic: "budget"}, KindService, true},
		{"organizations only", Fields{Organizations: []string{"SEGOV"}}, KindConsultation, true},
		{"macro is service only", Fields{Macro: "M1"}, KindConsultation, false},
		{"official letter is consultation only", Fields{OfficialLetter: "OF-12"}, KindService, false},
		{"official letter", Fields{OfficialLetter: "OF-12"}, KindConsultation, true},
		{"unknown kind", Fields{Topic: "x"}, KindNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fields.Supplied(tt.kind); got != tt.want {
				t.Errorf("Supplied(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestMirrorTargets(t *testing.T) {
	resolved := map[int64]string{1: "Ana", 2: "Bruno", 3: "Carla"}
	got := MirrorTargets(1, []int64{1, 2, 99, 3, 2}, resolved)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("MirrorTargets() = %v, want [2 3]", got)
	}
}

func TestResponsibleNames(t *testing.T) {
	resolved := map[int64]string{1: "Ana", 2: "Bruno"}
	if got := ResponsibleNames([]int64{1, 42, 2, 1}, resolved); got != "Ana, Bruno" {
		t.Errorf("ResponsibleNames() = %q, want %q", got, "Ana, Bruno")
	}
	if got := ResponsibleNames(nil, resolved); got != "" {
		t.Errorf("ResponsibleNames(nil) = %q, want empty", got)
	}
}

func TestMirrorNote(t *testing.T) {
	got := MirrorNote(Rule{Kind: KindConsultation, Subtype: SubtypeTraining}, "1.16/2026")
	if got != "Automatic entry - training on work order 1.16/2026" {
		t.Errorf("MirrorNote() = %q", got)
	}
}

package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  int64
		wantEnd string
		wantErr bool
	}{
		{name: "new row", input: "2026-03-02,08:00,09:30", wantEnd: "09:30"},
		{name: "spaces trimmed", input: " 2026-03-02 , 08:00 , 09:30 ", wantEnd: "09:30"},
		{name: "existing entry", input: "12@2026-03-02,08:00,09:30", wantID: 12, wantEnd: "09:30"},
		{name: "missing end", input: "2026-03-02,08:00", wantErr: true},
		{name: "bad id", input: "x@2026-03-02,08:00,09:30", wantErr: true},
		{name: "zero id", input: "0@2026-03-02,08:00,09:30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := parseRow(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if row.EntryID != tt.wantID || row.Date != "2026-03-02" || row.StartTime != "08:00" || row.EndTime != tt.wantEnd {
				t.Errorf("unexpected row %+v", row)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "", want: defaultLimit},
		{input: "all", want: 0},
		{input: "ALL", want: 0},
		{input: "25", want: 25},
		{input: "0", wantErr: true},
		{input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseLimit(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLimit(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" R-1, ,R-2,")
	if len(got) != 2 || got[0] != "R-1" || got[1] != "R-2" {
		t.Errorf("unexpected split %v", got)
	}
	if splitList("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestDerivedFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "log"}
	addEntryFieldFlags(cmd)
	cmd.Flags().String("consulted-on", "", "")
	cmd.Flags().String("topic", "", "")
	cmd.Flags().String("macro", "", "")
	cmd.Flags().String("directorate", "", "")
	cmd.Flags().String("record-activity", "", "")
	cmd.Flags().String("external", "", "")
	cmd.Flags().StringSlice("org", nil, "")
	cmd.Flags().String("channel", "", "")
	cmd.Flags().String("keywords", "", "")
	cmd.Flags().String("letter", "", "")
	cmd.Flags().String("observation", "", "")

	if d := derivedFromFlags(cmd); d != nil {
		t.Fatalf("expected no derived fields, got %+v", d)
	}

	if err := cmd.Flags().Parse([]string{"--org", "Org A", "--org", "Org B"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	d := derivedFromFlags(cmd)
	if d == nil || len(d.Organizations) != 2 {
		t.Fatalf("expected two organizations, got %+v", d)
	}

	if err := cmd.Flags().Parse([]string{"--topic", "Audit"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if d := derivedFromFlags(cmd); d == nil || d.Topic != "Audit" {
		t.Errorf("expected topic, got %+v", d)
	}
}

// TestCommandTree verifies every subcommand is registered with help text.
func TestCommandTree(t *testing.T) {
	tests := []struct {
		root *cobra.Command
		subs []string
	}{
		{root: EntryCmd(), subs: []string{"log", "list", "group", "edit", "delete"}},
		{root: DelegationCmd(), subs: []string{"create", "list", "show", "status", "update", "delete"}},
		{root: PlanItemCmd(), subs: []string{"create", "list", "rename", "delete"}},
		{root: WorkOrderCmd(), subs: []string{"create", "list", "rename", "delete"}},
		{root: CollaboratorCmd(), subs: []string{"create", "list", "update", "delete"}},
		{root: ReportCmd(), subs: []string{"totals", "monthly", "progress", "overview"}},
	}

	for _, tt := range tests {
		registered := map[string]*cobra.Command{}
		for _, sub := range tt.root.Commands() {
			registered[sub.Name()] = sub
		}
		for _, name := range tt.subs {
			sub, ok := registered[name]
			if !ok {
				t.Errorf("%s %s not registered", tt.root.Name(), name)
				continue
			}
			if sub.Short == "" {
				t.Errorf("%s %s should have a Short description", tt.root.Name(), name)
			}
		}
	}
}

func TestReportRequestFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "totals"}
	addReportFilterFlags(cmd)

	req, err := reportRequestFromFlags(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Dimension != "collaborator" || req.Limit != 0 {
		t.Errorf("unexpected defaults %+v", req)
	}

	if err := cmd.Flags().Parse([]string{"--by", "plan_item", "--month", "3", "--limit", "5"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	req, err = reportRequestFromFlags(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Dimension != "plan_item" || req.Month != 3 || req.Limit != 5 {
		t.Errorf("unexpected request %+v", req)
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Log and manage time entries",
}

var entryLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a batch of time entries",
	Long: `Log one or more intervals against a work order. Each --row is
DATE,START,END (for example 2026-03-02,08:00,09:30). The whole batch is
rejected if any row is invalid.`,
	Example: `  horas entry log --work-order 1.15/2026 --row 2026-03-02,08:00,09:30 --topic "Audit" --org "Org A"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		rows, err := rowsFromFlags(cmd)
		if err != nil {
			return err
		}

		req := primary.SubmitEntriesRequest{Rows: rows}
		req.OwnerID, _ = cmd.Flags().GetInt64("collaborator")
		req.WorkOrderCode, _ = cmd.Flags().GetString("work-order")
		req.PlanItemCode, _ = cmd.Flags().GetString("plan-item")
		req.Activity, _ = cmd.Flags().GetString("activity")
		req.DelegationID, _ = cmd.Flags().GetInt64("delegation")
		req.Note, _ = cmd.Flags().GetString("note")
		req.ExtraParticipants, _ = cmd.Flags().GetInt64Slice("with")
		req.Derived = derivedFromFlags(cmd)

		return wire.EntryAdapter().Submit(ctx, req)
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		rawLimit, _ := cmd.Flags().GetString("limit")
		limit, err := parseLimit(rawLimit)
		if err != nil {
			return err
		}
		collaborator, _ := cmd.Flags().GetInt64("collaborator")
		month, _ := cmd.Flags().GetInt("month")

		return wire.EntryAdapter().List(ctx, primary.EntryFilters{
			CollaboratorID: collaborator,
			Month:          month,
			Limit:          limit,
		})
	},
}

var entryGroupCmd = &cobra.Command{
	Use:   "group [entry-id]",
	Short: "Show the entries logged together with an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.EntryAdapter().ShowGroup(ctx, id)
	},
}

var entryEditCmd = &cobra.Command{
	Use:   "edit [entry-id]",
	Short: "Replace the group of an entry with new rows",
	Long: `Replace every entry of the group with the given rows. A row prefixed
with an entry id (ID@DATE,START,END) updates that entry; other rows are
inserted and entries left out are deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rows, err := rowsFromFlags(cmd)
		if err != nil {
			return err
		}

		req := primary.ReconcileRequest{AnchorID: id, Rows: rows}
		req.OwnerID, _ = cmd.Flags().GetInt64("collaborator")
		req.WorkOrderCode, _ = cmd.Flags().GetString("work-order")
		req.PlanItemCode, _ = cmd.Flags().GetString("plan-item")
		req.Activity, _ = cmd.Flags().GetString("activity")
		req.DelegationID, _ = cmd.Flags().GetInt64("delegation")
		req.Note, _ = cmd.Flags().GetString("note")

		return wire.EntryAdapter().Reconcile(ctx, req)
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a single entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.EntryAdapter().Delete(ctx, id)
	},
}

func rowsFromFlags(cmd *cobra.Command) ([]primary.EntryRow, error) {
	raw, _ := cmd.Flags().GetStringArray("row")
	rows := make([]primary.EntryRow, 0, len(raw))
	for _, r := range raw {
		row, err := parseRow(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRow reads [ID@]DATE,START,END.
func parseRow(s string) (primary.EntryRow, error) {
	var row primary.EntryRow
	if id, rest, ok := strings.Cut(s, "@"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || n <= 0 {
			return row, fmt.Errorf("invalid entry id in row %q", s)
		}
		row.EntryID = n
		s = rest
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return row, fmt.Errorf("invalid row %q: expected DATE,START,END", s)
	}
	row.Date = strings.TrimSpace(parts[0])
	row.StartTime = strings.TrimSpace(parts[1])
	row.EndTime = strings.TrimSpace(parts[2])
	return row, nil
}

// derivedFromFlags returns nil when no descriptive field was given.
func derivedFromFlags(cmd *cobra.Command) *primary.DerivedFields {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	orgs, _ := cmd.Flags().GetStringSlice("org")
	d := &primary.DerivedFields{
		ConsultedOn:          str("consulted-on"),
		Topic:                str("topic"),
		Macro:                str("macro"),
		Directorate:          str("directorate"),
		Activity:             str("record-activity"),
		ExternalParticipants: str("external"),
		Organizations:        orgs,
		Channel:              str("channel"),
		Keywords:             str("keywords"),
		OfficialLetter:       str("letter"),
		Observation:          str("observation"),
	}
	if len(orgs) > 0 {
		return d
	}
	for _, v := range []string{d.ConsultedOn, d.Topic, d.Macro, d.Directorate, d.Activity,
		d.ExternalParticipants, d.Channel, d.Keywords, d.OfficialLetter, d.Observation} {
		if v != "" {
			return d
		}
	}
	return nil
}

func addEntryFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("row", nil, "Interval as DATE,START,END (repeatable)")
	cmd.Flags().Int64("collaborator", 0, "Owner of the entries (admins only, defaults to the operator)")
	cmd.Flags().String("work-order", "", "Work order code")
	cmd.Flags().String("plan-item", "", "Plan item code")
	cmd.Flags().String("activity", "", "Activity description")
	cmd.Flags().Int64("delegation", 0, "Delegation the entries belong to")
	cmd.Flags().String("note", "", "Free-form note")
}

func init() {
	addEntryFieldFlags(entryLogCmd)
	entryLogCmd.Flags().Int64Slice("with", nil, "Collaborators who took part (mirrored entries)")
	entryLogCmd.Flags().String("consulted-on", "", "Consultation date")
	entryLogCmd.Flags().String("topic", "", "Service or consultation topic")
	entryLogCmd.Flags().String("macro", "", "Macro process")
	entryLogCmd.Flags().String("directorate", "", "Directorate served")
	entryLogCmd.Flags().String("record-activity", "", "Activity recorded on the service record")
	entryLogCmd.Flags().String("external", "", "External participants")
	entryLogCmd.Flags().StringSlice("org", nil, "Organizations served (repeatable)")
	entryLogCmd.Flags().String("channel", "", "Contact channel")
	entryLogCmd.Flags().String("keywords", "", "Keywords")
	entryLogCmd.Flags().String("letter", "", "Official letter reference")
	entryLogCmd.Flags().String("observation", "", "Observation")
	_ = entryLogCmd.MarkFlagRequired("row")

	addEntryFieldFlags(entryEditCmd)

	entryListCmd.Flags().Int64("collaborator", 0, "Filter by collaborator")
	entryListCmd.Flags().Int("month", 0, "Filter by month (1-12)")
	entryListCmd.Flags().String("limit", "", `Maximum rows, or "all" (default 100)`)

	entryCmd.AddCommand(entryLogCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryGroupCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

// EntryCmd returns the entry command
func EntryCmd() *cobra.Command {
	return entryCmd
}

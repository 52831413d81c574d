// Package derived decides which secondary records a time entry produces.
// This is part of the Functional Core - no I/O, only pure functions.
package derived

import (
	"fmt"
	"strings"
)

// Kind is the type of secondary record attached to an entry.
type Kind string

const (
	KindNone         Kind = ""
	KindService      Kind = "service"
	KindConsultation Kind = "consultation"
)

// Consultation sub-types.
const (
	SubtypeConsulting = "consulting"
	SubtypeTraining   = "training"
)

// Rule is one row of the recognized-code policy table.
type Rule struct {
	Kind    Kind
	Subtype string // only for KindConsultation
}

// Policy maps work order codes to the record they trigger.
type Policy struct {
	rules map[string]Rule
}

// NewPolicy builds a policy from a code -> rule table.
func NewPolicy(rules map[string]Rule) (Policy, error) {
	p := Policy{rules: make(map[string]Rule, len(rules))}
	for code, r := range rules {
		code = strings.TrimSpace(code)
		if code == "" {
			return Policy{}, fmt.Errorf("empty work order code in record policy")
		}
		switch r.Kind {
		case KindService:
			r.Subtype = ""
		case KindConsultation:
			if r.Subtype != SubtypeConsulting && r.Subtype != SubtypeTraining {
				return Policy{}, fmt.Errorf("code %s: consultation subtype must be %q or %q", code, SubtypeConsulting, SubtypeTraining)
			}
		default:
			return Policy{}, fmt.Errorf("code %s: unknown record kind %q", code, r.Kind)
		}
		p.rules[code] = r
	}
	return p, nil
}

// DefaultRules returns the codes recognized for the given operating year.
func DefaultRules(year int) map[string]Rule {
	return map[string]Rule{
		fmt.Sprintf("1.15/%d", year): {Kind: KindService},
		fmt.Sprintf("1.14/%d", year): {Kind: KindConsultation, Subtype: SubtypeConsulting},
		fmt.Sprintf("1.16/%d", year): {Kind: KindConsultation, Subtype: SubtypeTraining},
	}
}

// Lookup returns the rule for code, or a KindNone rule.
func (p Policy) Lookup(code string) Rule {
	if r, ok := p.rules[strings.TrimSpace(code)]; ok {
		return r
	}
	return Rule{Kind: KindNone}
}

// Recognized reports whether code triggers derived records.
func (p Policy) Recognized(code string) bool {
	return p.Lookup(code).Kind != KindNone
}

// Fields holds the optional descriptive fields of a service or consultation record.
type Fields struct {
	ConsultedOn          string   `json:"consulted_on,omitempty"`
	Topic                string   `json:"topic,omitempty"`
	Macro                string   `json:"macro,omitempty"`
	Directorate          string   `json:"directorate,omitempty"`
	Activity             string   `json:"activity,omitempty"`
	ExternalParticipants string   `json:"external_participants,omitempty"`
	Organizations        []string `json:"organizations,omitempty"`
	Channel              string   `json:"channel,omitempty"`
	Keywords             string   `json:"keywords,omitempty"`
	OfficialLetter       string   `json:"official_letter,omitempty"`
	Observation          string   `json:"observation,omitempty"`
}

// Supplied reports whether at least one field relevant to kind was filled in.
func (f Fields) Supplied(kind Kind) bool {
	filled := func(vals ...string) bool {
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
		return false
	}
	hasOrgs := len(JoinNonEmpty(f.Organizations)) > 0

	switch kind {
	case KindService:
		return hasOrgs || filled(f.ConsultedOn, f.Topic, f.Macro, f.Directorate, f.Activity, f.Channel, f.Observation)
	case KindConsultation:
		return hasOrgs || filled(f.ConsultedOn, f.Topic, f.Channel, f.OfficialLetter, f.Keywords, f.Observation)
	}
	return false
}

// JoinNonEmpty joins the non-blank values with ", ".
func JoinNonEmpty(vals []string) string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}

// MirrorNote is the note stamped on entries generated for co-participants.
func MirrorNote(rule Rule, workOrderCode string) string {
	label := "service"
	if rule.Kind == KindConsultation {
		label = rule.Subtype
	}
	return fmt.Sprintf("Automatic entry - %s on work order %s", label, workOrderCode)
}

// MirrorTargets returns the participants that receive a mirrored entry:
// resolved ids, without the submitter, without duplicates, in input order.
func MirrorTargets(submitterID int64, participants []int64, resolved map[int64]string) []int64 {
	seen := map[int64]bool{submitterID: true}
	var out []int64
	for _, id := range participants {
		if seen[id] {
			continue
		}
		if _, ok := resolved[id]; !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ResponsibleNames lists the resolved participant names in input order,
// skipping unresolved ids and duplicates. The submitter is kept when selected.
func ResponsibleNames(participants []int64, resolved map[int64]string) string {
	seen := map[int64]bool{}
	var names []string
	for _, id := range participants {
		name, ok := resolved[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// Package validator decides whether a proposed profile transition may be
// committed.
//
// Each transition kind has an ordered list of named rules. Rules run in order
// and the first failing rule rejects the transition; later rules are never
// evaluated. The validator performs no I/O and never mutates its inputs.
package validator

import (
	"strings"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
)

// Rejection explains why a transition was refused.
type Rejection struct {
	Rule   string
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// rule returns a non-empty reason when the transition violates it.
type rule struct {
	name  string
	check func(t models.Transition) string
}

var createRules = []rule{
	{"create.no_inputs", func(t models.Transition) string {
		return unless(len(t.Inputs) == 0, "no predecessor expected")
	}},
	{"create.single_output", func(t models.Transition) string {
		return unless(len(t.Outputs) == 1, "exactly one output expected")
	}},
	{"create.owner_signed", func(t models.Transition) string {
		return unless(t.Signers.Contains(t.Outputs[0].Owner.OwningKey), "owner signature required")
	}},
	requiredField("create", "mobileNumber", func(p models.Profile) string { return p.MobileNumber }),
	requiredField("create", "gstUserName", func(p models.Profile) string { return p.GSTUserName }),
	requiredField("create", "registrationNumber", func(p models.Profile) string { return p.RegistrationNumber }),
	requiredField("create", "legalBusinessName", func(p models.Profile) string { return p.LegalBusinessName }),
	requiredField("create", "placeOfBusiness", func(p models.Profile) string { return p.PlaceOfBusiness }),
	{"create.registration_status_active", func(t models.Transition) string {
		return unless(strings.EqualFold(t.Outputs[0].RegistrationStatus, string(id.StatusActive)),
			"registration status must be ACTIVE")
	}},
	{"create.status_active", func(t models.Transition) string {
		return unless(t.Outputs[0].Status == id.StatusActive, "status must be ACTIVE")
	}},
}

var updateRules = []rule{
	{"update.single_input_output", func(t models.Transition) string {
		return unless(len(t.Inputs) == 1 && len(t.Outputs) == 1, "exactly one input/output expected")
	}},
	{"update.id_immutable", func(t models.Transition) string {
		return unless(t.Inputs[0].ID == t.Outputs[0].ID, "id is immutable")
	}},
	{"update.owner_immutable", func(t models.Transition) string {
		in, out := t.Inputs[0].Owner, t.Outputs[0].Owner
		return unless(in.ID == out.ID && in.OwningKey == out.OwningKey, "owner is immutable")
	}},
	{"update.registration_number_immutable", func(t models.Transition) string {
		return unless(t.Inputs[0].RegistrationNumber == t.Outputs[0].RegistrationNumber,
			"registrationNumber is immutable")
	}},
	{"update.owner_signed", func(t models.Transition) string {
		return unless(t.Signers.Contains(t.Inputs[0].Owner.OwningKey), "owner authorization required")
	}},
	requiredField("update", "mobileNumber", func(p models.Profile) string { return p.MobileNumber }),
	requiredField("update", "gstUserName", func(p models.Profile) string { return p.GSTUserName }),
	requiredField("update", "registrationNumber", func(p models.Profile) string { return p.RegistrationNumber }),
	requiredField("update", "legalBusinessName", func(p models.Profile) string { return p.LegalBusinessName }),
	requiredField("update", "placeOfBusiness", func(p models.Profile) string { return p.PlaceOfBusiness }),
	requiredField("update", "registrationStatus", func(p models.Profile) string { return p.RegistrationStatus }),
	{"update.status_known", func(t models.Transition) string {
		return unless(t.Outputs[0].Status.IsValid(), "status must be ACTIVE or INACTIVE")
	}},
}

func requiredField(prefix, field string, get func(models.Profile) string) rule {
	return rule{
		name: prefix + "." + field + "_required",
		check: func(t models.Transition) string {
			return unless(strings.TrimSpace(get(t.Outputs[0])) != "", field+" must not be empty")
		},
	}
}

func unless(ok bool, reason string) string {
	if ok {
		return ""
	}
	return reason
}

// ValidateTransition admits t or returns the first violated rule as a
// *Rejection.
func ValidateTransition(t models.Transition) error {
	var rules []rule
	switch t.Kind {
	case models.KindCreate:
		rules = createRules
	case models.KindUpdate:
		rules = updateRules
	default:
		return &Rejection{Rule: "kind", Reason: "unknown transition kind"}
	}
	for _, r := range rules {
		if reason := r.check(t); reason != "" {
			return &Rejection{Rule: r.name, Reason: reason}
		}
	}
	return nil
}

// Validate is the single-record form: previous is nil for Create and the
// consumed version for Update.
func Validate(kind models.Kind, previous *models.Profile, proposed models.Profile, signers models.SignerSet) error {
	t := models.Transition{
		Kind:    kind,
		Outputs: []models.Profile{proposed},
		Signers: signers,
	}
	if previous != nil {
		t.Inputs = []models.Profile{*previous}
	}
	return ValidateTransition(t)
}

// RuleNames lists the rules for kind in evaluation order.
func RuleNames(kind models.Kind) []string {
	var rules []rule
	switch kind {
	case models.KindCreate:
		rules = createRules
	case models.KindUpdate:
		rules = updateRules
	}
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}

package menu

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length limits, counted in characters.
const (
	MaxNameLength     = 50
	MaxOptionalLength = 200
)

// Field identifies a validated field of a group or page.
type Field string

// Field values.
const (
	FieldID          Field = "id"
	FieldOrder       Field = "order"
	FieldName        Field = "name"
	FieldDashboardID Field = "dashboard_id"
	FieldURL         Field = "url"
	FieldGenieID     Field = "genie_id"
)

// Label returns the human-readable field name used in messages.
func (f Field) Label() string {
	switch f {
	case FieldDashboardID:
		return "dashboard id"
	case FieldGenieID:
		return "genie id"
	default:
		return string(f)
	}
}

// Violation is a single rule failure found in a tree.
type Violation struct {
	GroupID string
	// PageID is empty for group-level violations.
	PageID string
	// GroupPosition and PagePosition are 1-based; PagePosition is 0 for
	// group-level violations.
	GroupPosition int
	PagePosition  int
	Field         Field
	Message       string
}

// Key returns a stable key for the violated field, such as
// "menu_m1_name" or "page_p3_dashboard_id".
func (v Violation) Key() string {
	if v.PageID != "" {
		return fmt.Sprintf("page_%s_%s", v.PageID, v.Field)
	}
	return fmt.Sprintf("menu_%s_%s", v.GroupID, v.Field)
}

// String returns the violation prefixed with its position, for display.
func (v Violation) String() string {
	if v.PagePosition > 0 {
		return fmt.Sprintf("menu %d - page %d: %s", v.GroupPosition, v.PagePosition, v.Message)
	}
	return fmt.Sprintf("menu %d: %s", v.GroupPosition, v.Message)
}

// RuleError is returned by the single-field rules.
type RuleError struct {
	Field   Field
	Message string
}

// Error returns the violation message.
func (e *RuleError) Error() string { return e.Message }

// Unwrap returns ErrValidation for errors.Is compatibility.
func (e *RuleError) Unwrap() error { return ErrValidation }

// ValidateName checks a group or page name: it must not be blank and must not
// exceed MaxNameLength characters.
func ValidateName(s string) error {
	if msg := nameRule(s); msg != "" {
		return &RuleError{Field: FieldName, Message: msg}
	}
	return nil
}

// ValidateOptionalField checks an optional field: an unset ("") value is
// always valid, a set value must not exceed MaxOptionalLength characters.
func ValidateOptionalField(field Field, s string) error {
	if msg := optionalRule(field, s); msg != "" {
		return &RuleError{Field: field, Message: msg}
	}
	return nil
}

// ValidateTree applies the field rules to every group and page. Violations
// are ordered by group, then page, then field (name, dashboard id, url,
// genie id). A valid tree yields an empty result.
func ValidateTree(t Tree) []Violation {
	var violations []Violation
	for gi, g := range t.groups {
		if msg := nameRule(g.name); msg != "" {
			violations = append(violations, Violation{
				GroupID:       g.id,
				GroupPosition: gi + 1,
				Field:         FieldName,
				Message:       msg,
			})
		}
		for pi, p := range g.pages {
			for _, v := range validatePage(p) {
				v.GroupID = g.id
				v.PageID = p.id
				v.GroupPosition = gi + 1
				v.PagePosition = pi + 1
				violations = append(violations, v)
			}
		}
	}
	return violations
}

// ValidateStructure checks what the field rules do not: identifiers are set
// and unique, and orders are positive. Page identifiers must be unique across
// the whole tree because a page is addressed by id alone.
func ValidateStructure(t Tree) []Violation {
	var violations []Violation
	groupIDs := make(map[string]struct{}, len(t.groups))
	pageIDs := make(map[string]struct{}, t.PageCount())

	for gi, g := range t.groups {
		base := Violation{GroupID: g.id, GroupPosition: gi + 1}
		if strings.TrimSpace(g.id) == "" {
			violations = append(violations, base.with(FieldID, "menu id must not be blank"))
		} else if _, dup := groupIDs[g.id]; dup {
			violations = append(violations, base.with(FieldID, fmt.Sprintf("duplicate menu id %q", g.id)))
		}
		groupIDs[g.id] = struct{}{}
		if g.order <= 0 {
			violations = append(violations, base.with(FieldOrder, "order must be a positive integer"))
		}

		for pi, p := range g.pages {
			pb := Violation{GroupID: g.id, PageID: p.id, GroupPosition: gi + 1, PagePosition: pi + 1}
			if strings.TrimSpace(p.id) == "" {
				violations = append(violations, pb.with(FieldID, "page id must not be blank"))
			} else if _, dup := pageIDs[p.id]; dup {
				violations = append(violations, pb.with(FieldID, fmt.Sprintf("duplicate page id %q", p.id)))
			}
			pageIDs[p.id] = struct{}{}
			if p.order <= 0 {
				violations = append(violations, pb.with(FieldOrder, "order must be a positive integer"))
			}
		}
	}
	return violations
}

func (v Violation) with(field Field, msg string) Violation {
	v.Field = field
	v.Message = msg
	return v
}

func validatePage(p Page) []Violation {
	var violations []Violation
	if msg := nameRule(p.name); msg != "" {
		violations = append(violations, Violation{Field: FieldName, Message: msg})
	}
	optionals := []struct {
		field Field
		value string
	}{
		{FieldDashboardID, p.dashboardID},
		{FieldURL, p.url},
		{FieldGenieID, p.genieID},
	}
	for _, o := range optionals {
		if msg := optionalRule(o.field, o.value); msg != "" {
			violations = append(violations, Violation{Field: o.field, Message: msg})
		}
	}
	return violations
}

func validateUpdate(u PageUpdate) []Violation {
	var violations []Violation
	if u.Name != nil {
		if msg := nameRule(*u.Name); msg != "" {
			violations = append(violations, Violation{Field: FieldName, Message: msg})
		}
	}
	optionals := []struct {
		field Field
		value *string
	}{
		{FieldDashboardID, u.DashboardID},
		{FieldURL, u.URL},
		{FieldGenieID, u.GenieID},
	}
	for _, o := range optionals {
		if o.value == nil {
			continue
		}
		if msg := optionalRule(o.field, *o.value); msg != "" {
			violations = append(violations, Violation{Field: o.field, Message: msg})
		}
	}
	return violations
}

func nameRule(s string) string {
	if strings.TrimSpace(s) == "" {
		return "name must not be blank"
	}
	if utf8.RuneCountInString(s) > MaxNameLength {
		return fmt.Sprintf("name must not exceed %d characters", MaxNameLength)
	}
	return ""
}

func optionalRule(field Field, s string) string {
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) > MaxOptionalLength {
		return fmt.Sprintf("%s must not exceed %d characters", field.Label(), MaxOptionalLength)
	}
	return ""
}

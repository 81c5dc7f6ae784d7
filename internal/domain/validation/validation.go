// Package validation evaluates a fixed rule vocabulary against request fields.
package validation

import (
	"fmt"
	"unicode/utf8"
)

// Kind enumerates the supported rules.
type Kind int

const (
	KindRequired Kind = iota + 1
	KindMinLength
	KindMaxBytes
	KindString
)

// Rule is one check applied to a field. N is the bound for length rules.
type Rule struct {
	Kind Kind
	N    int
}

func Required() Rule { return Rule{Kind: KindRequired} }

// MinLength requires a string of at least n characters.
func MinLength(n int) Rule { return Rule{Kind: KindMinLength, N: n} }

// MaxBytes requires a string no longer than n bytes.
func MaxBytes(n int) Rule { return Rule{Kind: KindMaxBytes, N: n} }

func String() Rule { return Rule{Kind: KindString} }

// RuleSet maps a field name to its rules, evaluated in order.
// Fields without an entry are never checked.
type RuleSet map[string][]Rule

// Report is the outcome of Validate: the first failing message per field.
type Report struct {
	Errors map[string]string
}

// Passes reports whether no field failed.
func (r Report) Passes() bool {
	return len(r.Errors) == 0
}

// Rule sets used by the account service.
var (
	AccountRules = RuleSet{
		"name":     {Required(), MinLength(3)},
		"password": {Required(), MinLength(5), MaxBytes(72)},
		"jobTitle": {String()},
	}

	ModifyRules = RuleSet{
		"newName":     {MinLength(3)},
		"newJobTitle": {String()},
	}
)

// Validate checks data against rules. An absent, nil or empty-string value
// only fails when the field is required; otherwise its rules are skipped.
func Validate(data map[string]any, rules RuleSet) Report {
	report := Report{Errors: map[string]string{}}

	for field, fieldRules := range rules {
		value, present := data[field]
		if isEmpty(value, present) {
			if hasRequired(fieldRules) {
				report.Errors[field] = message(field, Required())
			}

			continue
		}

		for _, rule := range fieldRules {
			if !check(rule, value) {
				report.Errors[field] = message(field, rule)

				break
			}
		}
	}

	return report
}

func check(rule Rule, value any) bool {
	switch rule.Kind {
	case KindRequired:
		return true
	case KindMinLength:
		s, ok := value.(string)
		return ok && utf8.RuneCountInString(s) >= rule.N
	case KindMaxBytes:
		s, ok := value.(string)
		return ok && len(s) <= rule.N
	case KindString:
		_, ok := value.(string)
		return ok
	default:
		return false
	}
}

func message(field string, rule Rule) string {
	switch rule.Kind {
	case KindRequired:
		return fmt.Sprintf("The %s field is required.", field)
	case KindMinLength:
		return fmt.Sprintf("The %s must be at least %d characters.", field, rule.N)
	case KindMaxBytes:
		return fmt.Sprintf("The %s may not be greater than %d bytes.", field, rule.N)
	case KindString:
		return fmt.Sprintf("The %s must be a string.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	s, ok := value.(string)

	return ok && s == ""
}

func hasRequired(rules []Rule) bool {
	for _, r := range rules {
		if r.Kind == KindRequired {
			return true
		}
	}

	return false
}

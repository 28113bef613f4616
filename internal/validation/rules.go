package validation

import (
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/forms"
)

// Rule tokens accepted in a field's validate list.
const (
	RuleRequired = "required"
	RuleEmail    = "email"
	RuleURL      = "url"
	RuleNumeric  = "numeric"
	RuleMin      = "min"
	RuleMax      = "max"
)

// fieldRules converts validate tokens into ozzo rules. Unknown tokens are a
// configuration error.
func fieldRules(field entries.Field) ([]validation.Rule, bool, error) {
	rules := make([]validation.Rule, 0, len(field.Validate))
	required := false
	minLen, maxLen := 0, 0

	for _, token := range field.Validate {
		name, arg, _ := strings.Cut(strings.TrimSpace(token), ":")
		switch strings.ToLower(name) {
		case "":
			continue
		case RuleRequired:
			required = true
		case RuleEmail:
			rules = append(rules, is.EmailFormat)
		case RuleURL:
			rules = append(rules, is.URL)
		case RuleNumeric:
			rules = append(rules, is.Float)
		case RuleMin, RuleMax:
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 {
				return nil, false, entries.Misconfigured(field.Handle, fmt.Sprintf("invalid rule %q", token))
			}
			if strings.EqualFold(name, RuleMin) {
				minLen = n
			} else {
				maxLen = n
			}
		default:
			return nil, false, entries.Misconfigured(field.Handle, fmt.Sprintf("unknown rule %q", token))
		}
	}
	if minLen > 0 || maxLen > 0 {
		rules = append(rules, validation.RuneLength(minLen, maxLen))
	}
	return rules, required, nil
}

// validateBlueprint applies every field's rules to the submission.
func validateBlueprint(collection *entries.Collection, sub forms.Submission) (map[string]string, error) {
	failures := map[string]string{}
	if collection == nil {
		return failures, nil
	}

	for _, field := range collection.Blueprint.Fields {
		if len(field.Validate) == 0 {
			continue
		}
		rules, required, err := fieldRules(field)
		if err != nil {
			return nil, err
		}

		if field.Type == entries.FieldTypeAssets {
			if required && len(sub.Files(field.Handle)) == 0 {
				failures[field.Handle] = "cannot be blank"
			}
			continue
		}

		values := stringValues(sub, field.Handle)
		if required {
			if err := validation.Validate(strings.Join(values, ""), validation.Required); err != nil {
				failures[field.Handle] = err.Error()
				continue
			}
		}
		for _, value := range values {
			if err := validation.Validate(value, rules...); err != nil {
				failures[field.Handle] = err.Error()
				break
			}
		}
	}
	return failures, nil
}

func stringValues(sub forms.Submission, key string) []string {
	switch typed := sub.Value(key).(type) {
	case string:
		return []string{typed}
	case []string:
		return typed
	default:
		return nil
	}
}

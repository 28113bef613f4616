package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/forms"
)

// DefaultValidator names the validator used when a form does not pick one.
const DefaultValidator = "default"

// Validator checks a submission before it reaches the submission service.
type Validator interface {
	Validate(ctx context.Context, collection *entries.Collection, sub forms.Submission) error
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(ctx context.Context, collection *entries.Collection, sub forms.Submission) error

func (fn ValidatorFunc) Validate(ctx context.Context, collection *entries.Collection, sub forms.Submission) error {
	return fn(ctx, collection, sub)
}

// Registry holds named validators. Forms pick one through the _request field.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry returns a registry with the blueprint validator installed as
// the default.
func NewRegistry() *Registry {
	r := &Registry{validators: map[string]Validator{}}
	r.Register(DefaultValidator, BlueprintValidator{})
	return r
}

// Register adds or replaces a named validator.
func (r *Registry) Register(name string, validator Validator) {
	name = strings.TrimSpace(name)
	if name == "" || validator == nil {
		return
	}
	r.mu.Lock()
	r.validators[name] = validator
	r.mu.Unlock()
}

// Lookup returns the validator for name; an empty name selects the default.
func (r *Registry) Lookup(name string) (Validator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultValidator
	}
	r.mu.RLock()
	validator, ok := r.validators[name]
	r.mu.RUnlock()
	if !ok {
		return nil, entries.Misconfigured(forms.KeyRequest, fmt.Sprintf("unknown request validator %q", name))
	}
	return validator, nil
}

// Validate runs the validator selected by the submission.
func (r *Registry) Validate(ctx context.Context, collection *entries.Collection, sub forms.Submission) error {
	validator, err := r.Lookup(sub.String(forms.KeyRequest))
	if err != nil {
		return err
	}
	return validator.Validate(ctx, collection, sub)
}

// BlueprintValidator applies the blueprint's validate tokens and, when the
// collection carries one, its JSON schema.
type BlueprintValidator struct{}

func (BlueprintValidator) Validate(_ context.Context, collection *entries.Collection, sub forms.Submission) error {
	failures, err := validateBlueprint(collection, sub)
	if err != nil {
		return err
	}

	if collection != nil && len(collection.Schema) > 0 {
		issues, err := ValidatePayload(collection.Schema, schemaPayload(sub))
		if err != nil {
			return entries.Misconfigured("schema", err.Error())
		}
		for _, issue := range issues {
			key := fieldFromLocation(issue.Location)
			if _, exists := failures[key]; !exists {
				failures[key] = issue.Message
			}
		}
	}

	if len(failures) > 0 {
		return Invalid(failures)
	}
	return nil
}

// schemaPayload exposes submitted values, without control keys, in the
// shape JSON schema expects.
func schemaPayload(sub forms.Submission) map[string]any {
	payload := map[string]any{}
	for key, value := range sub.Values() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		if list, ok := value.([]string); ok {
			items := make([]any, len(list))
			for i, item := range list {
				items[i] = item
			}
			payload[key] = items
			continue
		}
		payload[key] = value
	}
	return payload
}

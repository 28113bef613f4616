package permissions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/goliatone/go-guestentries/entries"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists every action a guest form can perform.
var Actions = []Action{ActionCreate, ActionUpdate, ActionDelete}

// GuestSubject is the casbin subject anonymous visitors act as.
const GuestSubject = "guest"

const wildcard = "*"

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Config describes which collections accept guest submissions.
type Config struct {
	// Collections maps a handle to whether every action is allowed on it.
	Collections map[string]bool
	// Actions grants specific actions per handle.
	Actions map[string][]string
	// PolicyPath optionally points at a casbin CSV policy file
	// ("p, guest, albums, create").
	PolicyPath string
}

// Gate authorizes guest actions on collections.
type Gate struct {
	enforcer *casbin.Enforcer
}

// NewGate builds a gate from the allow-list, the per-action grants and the
// optional policy file.
func NewGate(cfg Config) (*Gate, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("permissions: model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if path := strings.TrimSpace(cfg.PolicyPath); path != "" {
		enforcer, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(path))
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("permissions: enforcer: %w", err)
	}
	enforcer.EnableAutoSave(false)

	policies, err := policiesFrom(cfg)
	if err != nil {
		return nil, err
	}
	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("permissions: add policies: %w", err)
		}
	}
	return &Gate{enforcer: enforcer}, nil
}

// Allowed reports whether guests may perform action on collection.
func (g *Gate) Allowed(action Action, collection string) bool {
	if g == nil || g.enforcer == nil {
		return false
	}
	collection = normalizeToken(collection)
	if collection == "" {
		return false
	}
	ok, err := g.enforcer.Enforce(GuestSubject, collection, string(action))
	return err == nil && ok
}

// Authorize returns a permission denied error unless the action is allowed.
func (g *Gate) Authorize(_ context.Context, action Action, collection string) error {
	if g.Allowed(action, collection) {
		return nil
	}
	return entries.PermissionDenied(string(action), collection)
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// ParseAction validates an action name.
func ParseAction(raw string) (Action, error) {
	action := Action(normalizeToken(raw))
	for _, known := range Actions {
		if action == known {
			return action, nil
		}
	}
	return "", entries.Misconfigured("actions", fmt.Sprintf("unknown action %q", raw))
}

func policiesFrom(cfg Config) ([][]string, error) {
	seen := map[string]struct{}{}
	var policies [][]string
	add := func(collection string, action string) {
		rule := []string{GuestSubject, collection, action}
		key := strings.Join(rule, ",")
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		policies = append(policies, rule)
	}

	for _, handle := range sortedKeys(cfg.Collections) {
		if !cfg.Collections[handle] {
			continue
		}
		if collection := normalizeToken(handle); collection != "" {
			add(collection, wildcard)
		}
	}
	for _, handle := range sortedKeys(cfg.Actions) {
		collection := normalizeToken(handle)
		if collection == "" {
			continue
		}
		for _, raw := range cfg.Actions[handle] {
			action, err := ParseAction(raw)
			if err != nil {
				return nil, err
			}
			add(collection, string(action))
		}
	}
	return policies, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

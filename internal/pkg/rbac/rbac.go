// Package rbac builds the casbin enforcer used for moderation rules, such as
// an admin freezing any post.
//
// Policies are static: they come from configuration at startup and are never
// written back.
package rbac

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var (
	ErrReadOnly      = errors.New("rbac: policies are read-only")
	ErrPolicyFormat  = errors.New("rbac: policy must be subject:object:action")
	ErrGroupingShape = errors.New("rbac: grouping must be member:role")
)

// Policy allows Subject to perform Action on Object. "*" matches any object
// or action.
type Policy struct {
	Subject string
	Object  string
	Action  string
}

// Grouping makes Member inherit every policy of Role.
type Grouping struct {
	Member string
	Role   string
}

// DefaultPolicies let admins moderate any post or comment.
func DefaultPolicies() []Policy {
	return []Policy{
		{Subject: "admin", Object: "post", Action: "freeze_any"},
		{Subject: "admin", Object: "comment", Action: "freeze_any"},
	}
}

// ParsePolicies reads entries like "admin:post:freeze_any".
func ParsePolicies(entries []string) ([]Policy, error) {
	out := make([]Policy, 0, len(entries))
	for _, e := range entries {
		parts := strings.Split(e, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("%w: %q", ErrPolicyFormat, e)
		}
		out = append(out, Policy{Subject: parts[0], Object: parts[1], Action: parts[2]})
	}
	return out, nil
}

// ParseGroupings reads entries like "superadmin:admin".
func ParseGroupings(entries []string) ([]Grouping, error) {
	out := make([]Grouping, 0, len(entries))
	for _, e := range entries {
		member, role, ok := strings.Cut(e, ":")
		if !ok || member == "" || role == "" || strings.Contains(role, ":") {
			return nil, fmt.Errorf("%w: %q", ErrGroupingShape, e)
		}
		out = append(out, Grouping{Member: member, Role: role})
	}
	return out, nil
}

// New returns an enforcer loaded with policies and groupings.
func New(policies []Policy, groupings []Grouping) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m, &StaticAdapter{policies: policies, groupings: groupings})
	if err != nil {
		return nil, err
	}
	e.EnableAutoSave(false)

	return e, nil
}

var _ persist.Adapter = (*StaticAdapter)(nil)

// StaticAdapter serves a fixed policy set to casbin.
type StaticAdapter struct {
	policies  []Policy
	groupings []Grouping
}

func (a *StaticAdapter) LoadPolicy(m model.Model) error {
	for _, p := range a.policies {
		if err := persist.LoadPolicyArray([]string{"p", p.Subject, p.Object, p.Action}, m); err != nil {
			return err
		}
	}
	for _, g := range a.groupings {
		if err := persist.LoadPolicyArray([]string{"g", g.Member, g.Role}, m); err != nil {
			return err
		}
	}
	return nil
}

func (*StaticAdapter) SavePolicy(model.Model) error { return ErrReadOnly }

func (*StaticAdapter) AddPolicy(string, string, []string) error { return ErrReadOnly }

func (*StaticAdapter) RemovePolicy(string, string, []string) error { return ErrReadOnly }

func (*StaticAdapter) RemoveFilteredPolicy(string, string, int, ...string) error {
	return ErrReadOnly
}

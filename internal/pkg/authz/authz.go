// Package authz builds the casbin enforcer guarding admin actions.
//
// Policies are seeded from configuration as "subject, object, action"
// lines and role grants as member to role pairs. "*" matches any object
// or action.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
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

// ErrInvalidPolicy is returned for a policy line that is not "sub, obj, act".
var ErrInvalidPolicy = errors.New("authz: policy must be \"subject, object, action\"")

// Policy allows Subject to perform Action on Object.
type Policy struct {
	Subject string
	Object  string
	Action  string
}

// Grant makes Member inherit the policies of Role.
type Grant struct {
	Member string
	Role   string
}

// ParsePolicies parses "subject, object, action" lines.
func ParsePolicies(lines []string) ([]Policy, error) {
	out := make([]Policy, 0, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, line)
		}
		p := Policy{
			Subject: strings.TrimSpace(parts[0]),
			Object:  strings.TrimSpace(parts[1]),
			Action:  strings.TrimSpace(parts[2]),
		}
		if p.Subject == "" || p.Object == "" || p.Action == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, line)
		}
		out = append(out, p)
	}
	return out, nil
}

// New returns an in-memory enforcer holding policies and grants.
func New(policies []Policy, grants []Grant) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p.Subject, p.Object, p.Action); err != nil {
			return nil, err
		}
	}
	for _, g := range grants {
		if _, err := e.AddGroupingPolicy(g.Member, g.Role); err != nil {
			return nil, err
		}
	}

	return e, nil
}

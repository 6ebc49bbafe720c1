package infra

import (
	"go-leave/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// DefaultPolicies grants the admin role every privileged leave capability.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, domain.ResourceLeave, domain.ActionDecide},
	{domain.RoleAdmin, domain.ResourceLeave, domain.ActionCancelAny},
	{domain.RoleAdmin, domain.ResourceLeave, domain.ActionReadAll},
	{domain.RoleAdmin, domain.ResourceHoliday, domain.ActionManage},
	{domain.RoleAdmin, domain.ResourceBalance, domain.ActionReadAll},
}

// NewEnforcer builds an in-memory enforcer loaded with policies.
func NewEnforcer(policies [][]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

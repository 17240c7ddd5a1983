package identity

import (
	"sort"
	"strings"

	"github.com/erp/suite/internal/domain/shared"
)

// RoleCode identifies one of the fixed roles
type RoleCode string

const (
	RoleAdmin      RoleCode = "admin"
	RoleSales      RoleCode = "sales"
	RoleAccountant RoleCode = "accountant"
	RoleGuest      RoleCode = "guest"
)

// AllRoles lists the roles in a stable order
var AllRoles = []RoleCode{RoleAdmin, RoleSales, RoleAccountant, RoleGuest}

// IsValid reports whether r is a known role
func (r RoleCode) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleAccountant, RoleGuest:
		return true
	}
	return false
}

// ParseRole normalizes and validates a role code
func ParseRole(s string) (RoleCode, error) {
	r := RoleCode(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
	}
	return r, nil
}

// Resources
const (
	ResourceCustomer      = "customer"
	ResourceInvoice       = "invoice"
	ResourceBOQItem       = "boq_item"
	ResourceEmployee      = "employee"
	ResourcePurchaseOrder = "purchase_order"
	ResourcePoints        = "points"
	ResourceUser          = "user"
	ResourceTenant        = "tenant"
	ResourcePermission    = "permission"
)

// Actions
const (
	ActionCreate   = "create"
	ActionRead     = "read"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionSend     = "send"
	ActionPay      = "pay"
	ActionApprove  = "approve"
	ActionReceive  = "receive"
	ActionProgress = "progress"
)

// resourceActions is the closed set of (resource, action) pairs
var resourceActions = map[string][]string{
	ResourceCustomer:      {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	ResourceInvoice:       {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionSend, ActionPay},
	ResourceBOQItem:       {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionProgress},
	ResourceEmployee:      {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	ResourcePurchaseOrder: {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove, ActionReceive},
	ResourcePoints:        {ActionRead},
	ResourceUser:          {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	ResourceTenant:        {ActionRead, ActionUpdate},
	ResourcePermission:    {ActionRead, ActionUpdate},
}

// Resources returns all resource names sorted
func Resources() []string {
	out := make([]string, 0, len(resourceActions))
	for r := range resourceActions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// ActionsFor returns the actions defined for a resource
func ActionsFor(resource string) []string {
	return resourceActions[resource]
}

// IsKnownPermission reports whether the pair exists in the matrix
func IsKnownPermission(resource, action string) bool {
	for _, a := range resourceActions[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Scope restricts which records a grant applies to
type Scope string

const (
	ScopeNone Scope = ""
	ScopeOwn  Scope = "own" // only records the actor created
	ScopeAll  Scope = "all"
)

// IsValid reports whether s is a grantable scope
func (s Scope) IsValid() bool {
	return s == ScopeOwn || s == ScopeAll
}

// Grant is a single cell of the permission matrix
type Grant struct {
	Allowed bool  `json:"allowed"`
	Scope   Scope `json:"scope,omitempty"`
}

// Allow returns an allowing grant with the given scope
func Allow(scope Scope) Grant {
	return Grant{Allowed: true, Scope: scope}
}

// Deny returns a denying grant
func Deny() Grant {
	return Grant{}
}

// PermissionKey addresses a matrix cell
type PermissionKey struct {
	Role     RoleCode
	Resource string
	Action   string
}

// Code returns the "resource:action" form used in tokens
func (k PermissionKey) Code() string {
	return k.Resource + ":" + k.Action
}

// Decision is the result of evaluating the policy
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  string
}

// RequiresOwnership reports whether the decision only covers own records
func (d Decision) RequiresOwnership() bool {
	return d.Allowed && d.Scope == ScopeOwn
}

// Policy is an immutable role × resource × action matrix
type Policy struct {
	grants map[PermissionKey]Grant
}

// DefaultPolicy returns the built-in matrix
func DefaultPolicy() *Policy {
	p := &Policy{grants: make(map[PermissionKey]Grant)}

	for resource, actions := range resourceActions {
		for _, action := range actions {
			p.grants[PermissionKey{RoleAdmin, resource, action}] = Allow(ScopeAll)
		}
	}

	p.set(RoleSales, ResourceCustomer, ActionCreate, ScopeAll)
	p.set(RoleSales, ResourceCustomer, ActionRead, ScopeAll)
	p.set(RoleSales, ResourceCustomer, ActionUpdate, ScopeOwn)
	p.set(RoleSales, ResourceCustomer, ActionDelete, ScopeOwn)
	p.set(RoleSales, ResourceInvoice, ActionCreate, ScopeAll)
	p.set(RoleSales, ResourceInvoice, ActionRead, ScopeAll)
	p.set(RoleSales, ResourceInvoice, ActionUpdate, ScopeOwn)
	p.set(RoleSales, ResourceInvoice, ActionDelete, ScopeOwn)
	p.set(RoleSales, ResourceInvoice, ActionSend, ScopeOwn)
	p.set(RoleSales, ResourceBOQItem, ActionCreate, ScopeAll)
	p.set(RoleSales, ResourceBOQItem, ActionRead, ScopeAll)
	p.set(RoleSales, ResourceBOQItem, ActionUpdate, ScopeOwn)
	p.set(RoleSales, ResourceBOQItem, ActionDelete, ScopeOwn)
	p.set(RoleSales, ResourceBOQItem, ActionProgress, ScopeOwn)
	p.set(RoleSales, ResourcePoints, ActionRead, ScopeAll)

	p.set(RoleAccountant, ResourceInvoice, ActionCreate, ScopeAll)
	p.set(RoleAccountant, ResourceInvoice, ActionRead, ScopeAll)
	p.set(RoleAccountant, ResourceInvoice, ActionUpdate, ScopeOwn)
	p.set(RoleAccountant, ResourceInvoice, ActionSend, ScopeAll)
	p.set(RoleAccountant, ResourceInvoice, ActionPay, ScopeAll)
	p.set(RoleAccountant, ResourceCustomer, ActionRead, ScopeAll)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionCreate, ScopeAll)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionRead, ScopeAll)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionUpdate, ScopeOwn)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionDelete, ScopeOwn)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionApprove, ScopeAll)
	p.set(RoleAccountant, ResourcePurchaseOrder, ActionReceive, ScopeAll)
	p.set(RoleAccountant, ResourceEmployee, ActionRead, ScopeAll)
	p.set(RoleAccountant, ResourcePoints, ActionRead, ScopeAll)

	p.set(RoleGuest, ResourceCustomer, ActionRead, ScopeAll)
	p.set(RoleGuest, ResourceInvoice, ActionRead, ScopeAll)
	p.set(RoleGuest, ResourceBOQItem, ActionRead, ScopeAll)
	p.set(RoleGuest, ResourcePoints, ActionRead, ScopeAll)

	return p
}

func (p *Policy) set(role RoleCode, resource, action string, scope Scope) {
	p.grants[PermissionKey{role, resource, action}] = Allow(scope)
}

// Grant returns the matrix cell, denying unknown cells
func (p *Policy) Grant(role RoleCode, resource, action string) Grant {
	if p == nil {
		return Deny()
	}
	return p.grants[PermissionKey{role, resource, action}]
}

// WithOverrides returns a copy of the policy with tenant overrides applied.
// Overrides targeting admin are ignored.
func (p *Policy) WithOverrides(overrides []*PermissionOverride) *Policy {
	next := &Policy{grants: make(map[PermissionKey]Grant, len(p.grants))}
	for k, v := range p.grants {
		next.grants[k] = v
	}
	for _, o := range overrides {
		if o == nil || o.Role == RoleAdmin {
			continue
		}
		next.grants[o.Key()] = o.Grant()
	}
	return next
}

// Decide evaluates whether role may perform action on resource.
// ownerMatches tells whether the actor created the target record; pass
// true when there is no specific target (list or create).
func (p *Policy) Decide(role RoleCode, resource, action string, ownerMatches bool) Decision {
	g := p.Grant(role, resource, action)
	if !g.Allowed {
		return Decision{Reason: "no grant for " + resource + ":" + action}
	}
	if g.Scope == ScopeOwn && !ownerMatches {
		return Decision{Scope: g.Scope, Reason: "grant limited to own records"}
	}
	return Decision{Allowed: true, Scope: g.Scope}
}

// HasAnyAction reports whether the role holds at least one grant on resource
func (p *Policy) HasAnyAction(role RoleCode, resource string) bool {
	for _, a := range resourceActions[resource] {
		if p.Grant(role, resource, a).Allowed {
			return true
		}
	}
	return false
}

// PermissionCodes lists "resource:action" codes the role holds, sorted
func (p *Policy) PermissionCodes(role RoleCode) []string {
	codes := make([]string, 0)
	for k, g := range p.grants {
		if k.Role == role && g.Allowed {
			codes = append(codes, k.Code())
		}
	}
	sort.Strings(codes)
	return codes
}

// MatrixEntry is one row of the flattened matrix
type MatrixEntry struct {
	Role     RoleCode `json:"role"`
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	Grant
}

// Matrix flattens the policy into a stable, sorted list
func (p *Policy) Matrix() []MatrixEntry {
	out := make([]MatrixEntry, 0, len(AllRoles)*len(resourceActions)*4)
	for _, role := range AllRoles {
		for _, resource := range Resources() {
			for _, action := range resourceActions[resource] {
				out = append(out, MatrixEntry{
					Role:     role,
					Resource: resource,
					Action:   action,
					Grant:    p.Grant(role, resource, action),
				})
			}
		}
	}
	return out
}

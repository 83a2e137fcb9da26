package service

import (
	"fmt"
	"sync"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// identitySource is the slice of the session store the guard depends on.
type identitySource interface {
	CurrentIdentity() *domain.Identity
}

// RouteGuard gates protected views on the session's current identity.
type RouteGuard struct {
	session identitySource
}

var _ ports.RouteGuard = (*RouteGuard)(nil)

func NewRouteGuard(session identitySource) *RouteGuard {
	return &RouteGuard{session: session}
}

// Authorize decides whether the current identity may open a view requiring
// one of the given roles. A nil or empty set only requires authentication.
func (g *RouteGuard) Authorize(required domain.RoleSet) domain.Decision {
	ident := g.session.CurrentIdentity()
	if ident == nil {
		return domain.DecisionRedirectToSignIn
	}
	if required.Empty() {
		return domain.DecisionAllow
	}
	if !required.Contains(ident.Role) {
		return domain.DecisionRedirectToDefault
	}
	return domain.DecisionAllow
}

// LandingRouteFor returns the role-specific dashboard for ident.
func (g *RouteGuard) LandingRouteFor(ident domain.Identity) (domain.Path, error) {
	return domain.LandingRouteFor(ident.Role)
}

// Resolve is the neutral dashboard's redirect: sign-in when logged out,
// the role's landing route otherwise.
func (g *RouteGuard) Resolve() (domain.Path, error) {
	ident := g.session.CurrentIdentity()
	if ident == nil {
		return domain.PathSignIn, nil
	}
	p, err := g.LandingRouteFor(*ident)
	if err != nil {
		return "", fmt.Errorf("resolve landing route for %s: %w", ident.Email, err)
	}
	return p, nil
}

// Check is a one-shot evaluation of a single protected view. It starts in
// StateChecking and moves to a terminal state on the first Evaluate; it
// never returns to Checking.
type Check struct {
	guard    ports.RouteGuard
	required domain.RoleSet

	mu       sync.Mutex
	state    domain.GuardState
	decision domain.Decision
}

func NewCheck(guard ports.RouteGuard, required domain.RoleSet) *Check {
	return &Check{guard: guard, required: required, state: domain.StateChecking}
}

// Evaluate runs the guard once and returns the resulting terminal state.
func (c *Check) Evaluate() domain.GuardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Terminal() {
		c.decision = c.guard.Authorize(c.required)
		c.state = domain.StateFor(c.decision)
	}
	return c.state
}

// State returns the current state without evaluating.
func (c *Check) State() domain.GuardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Decision returns the decision reached by Evaluate. Before Evaluate it is
// meaningless.
func (c *Check) Decision() domain.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

package domain

// Decision is the outcome of authorizing a protected view.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectToSignIn
	DecisionRedirectToDefault
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectToSignIn:
		return "redirect_to_signin"
	case DecisionRedirectToDefault:
		return "redirect_to_default"
	default:
		return "unknown"
	}
}

// Target is where a redirecting decision sends the caller. Allow has none.
func (d Decision) Target() Path {
	switch d {
	case DecisionRedirectToSignIn:
		return PathSignIn
	case DecisionRedirectToDefault:
		return PathDashboard
	default:
		return ""
	}
}

// GuardState tracks a single evaluation of a protected view.
type GuardState int

const (
	StateChecking GuardState = iota
	StateAuthorized
	StateRedirectingToSignIn
	StateRedirectingToDefault
)

func (s GuardState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthorized:
		return "authorized"
	case StateRedirectingToSignIn:
		return "redirecting_to_signin"
	case StateRedirectingToDefault:
		return "redirecting_to_default"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s GuardState) Terminal() bool {
	return s != StateChecking
}

// StateFor maps a decision onto the terminal state it produces.
func StateFor(d Decision) GuardState {
	switch d {
	case DecisionAllow:
		return StateAuthorized
	case DecisionRedirectToDefault:
		return StateRedirectingToDefault
	default:
		return StateRedirectingToSignIn
	}
}

package domain

import "time"

// SessionEventKind classifies an entry in the session audit trail.
type SessionEventKind string

const (
	EventLoginSucceeded   SessionEventKind = "login_succeeded"
	EventLoginFailed      SessionEventKind = "login_failed"
	EventLogout           SessionEventKind = "logout"
	EventRestored         SessionEventKind = "restored"
	EventRestoreDiscarded SessionEventKind = "restore_discarded"
)

// SessionEvent records a session lifecycle transition.
type SessionEvent struct {
	Kind      SessionEventKind
	Email     string
	Role      Role
	Reason    string
	Timestamp time.Time
}

package domain

import "time"

// Audit actions recorded by the account service.
const (
	AuditLoginOK     = "login_ok"
	AuditLoginFailed = "login_failed"
	AuditRegistered  = "registered"
)

// AuditEntry is a single record in the authentication audit trail. Entries are
// written asynchronously and are best-effort: losing one never fails the
// request that produced it.
type AuditEntry struct {
	Username  string
	Action    string
	RemoteIP  string
	Timestamp time.Time
}

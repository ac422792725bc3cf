package models

import "time"

const (
	AuditActionRegister      = "user.register"
	AuditActionLogin         = "user.login"
	AuditActionProfileUpdate = "profile.update"
	AuditActionSubmit        = "assessment.submit"
)

type AuditEntry struct {
	ID        string
	UserID    *string
	Action    string
	Timestamp time.Time
}

package identity

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditMethod is called to log the audit trail of write operations. Adapted
// from the teacher's auth.AuditMethod: the same shape, but the events it
// reports are writes and LINK back-reference maintenance rather than
// authentication/authorization, since there is no authentication to audit.
type AuditMethod interface {
	// Write logs an INSERT/UPDATE/DELETE against a folder.
	Write(folder, op string, itemID string, err error)
	// LinkBackReference logs a best-effort LINK mirror update, including
	// the downgraded-to-warning failures described in the error handling
	// propagation policy.
	LinkBackReference(fromFolder, toFolder, itemID string, err error)
	// Query logs a SELECT/COUNT execution.
	Query(folder string, d time.Duration, err error)
}

const auditLogMessage = "audit trail"

// NewAuditLog creates an AuditMethod that logs to a logrus.Logger.
func NewAuditLog(l *logrus.Logger) AuditMethod {
	return &AuditLog{log: l.WithField("system", "audit")}
}

// AuditLog logs audit trails to a logrus.Logger.
type AuditLog struct {
	log *logrus.Entry
}

func withErr(fields logrus.Fields, err error) logrus.Fields {
	fields["success"] = err == nil
	if err != nil {
		fields["err"] = err
	}
	return fields
}

// Write implements AuditMethod.
func (a *AuditLog) Write(folder, op, itemID string, err error) {
	fields := withErr(logrus.Fields{
		"action": "write",
		"op":     op,
		"folder": folder,
		"item":   itemID,
	}, err)
	a.log.WithFields(fields).Info(auditLogMessage)
}

// LinkBackReference implements AuditMethod. A failure here is always logged
// as a warning, never escalated: the primary write already succeeded.
func (a *AuditLog) LinkBackReference(fromFolder, toFolder, itemID string, err error) {
	fields := withErr(logrus.Fields{
		"action": "link_back_reference",
		"from":   fromFolder,
		"to":     toFolder,
		"item":   itemID,
	}, err)
	if err != nil {
		a.log.WithFields(fields).Warn(auditLogMessage)
		return
	}
	a.log.WithFields(fields).Debug(auditLogMessage)
}

// Query implements AuditMethod.
func (a *AuditLog) Query(folder string, d time.Duration, err error) {
	fields := withErr(logrus.Fields{
		"action":   "query",
		"folder":   folder,
		"duration": d,
	}, err)
	a.log.WithFields(fields).Info(auditLogMessage)
}

// NoopAudit discards every event; used when the caller hasn't configured a
// logger.
type NoopAudit struct{}

func (NoopAudit) Write(string, string, string, error)             {}
func (NoopAudit) LinkBackReference(string, string, string, error) {}
func (NoopAudit) Query(string, time.Duration, error)               {}

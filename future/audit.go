package future

import "time"

// AuditRecord is the terminal outcome of a detached Future, as captured
// by Future.DetachWithAudit.
type AuditRecord struct {
	Value string
	Err   error
	At    time.Time
}

// AuditSink receives AuditRecords from DetachWithAudit. Defined here
// rather than depending on any particular storage package, so the core
// future package never needs a hard dependency on a database driver;
// gormx.FutureAuditRepo is the module's own implementation.
type AuditSink interface {
	RecordOutcome(AuditRecord)
}

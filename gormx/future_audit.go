package gormx

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saltfishpr/futures/future"
)

// FutureAuditRecord is the row persisted for every outcome a
// FutureAuditRepo receives from a detached Future.
type FutureAuditRecord struct {
	ID        uint `gorm:"primarykey"`
	Value     SecureString
	Error     string
	Failed    bool
	CreatedAt time.Time
}

func (FutureAuditRecord) TableName() string { return "future_audit_records" }

// FutureAuditRepo persists every outcome handed to it by
// (*future.Future[T]).DetachWithAudit, implementing future.AuditSink. It
// embeds BaseRepo for the shared not-found helper and uses
// OnceTransactionRepo so a caller already inside a transaction (e.g. the
// task whose Future is being audited) reuses it instead of opening a
// second one.
type FutureAuditRepo struct {
	*BaseRepo
	*OnceTransactionRepo

	ctx context.Context
}

// NewFutureAuditRepo builds a FutureAuditRepo bound to db. ctx is the
// context RecordOutcome's internal write uses; DetachWithAudit's callback
// has no context of its own to thread through, since it runs after the
// producing task (and whatever context governed it) has already finished.
func NewFutureAuditRepo(ctx context.Context, db *gorm.DB) *FutureAuditRepo {
	return &FutureAuditRepo{
		BaseRepo:            NewBaseRepo(),
		OnceTransactionRepo: NewOnceTransactionRepo(db, CtxKeyMySQLTransaction),
		ctx:                 ctx,
	}
}

var _ future.AuditSink = (*FutureAuditRepo)(nil)

// RecordOutcome implements future.AuditSink. Write failures are
// swallowed rather than returned, since AuditSink.RecordOutcome has no
// error return of its own — the audit trail is best-effort by design, it
// must never become a second place for a detached future's failure to
// get lost in a panic.
func (r *FutureAuditRepo) RecordOutcome(rec future.AuditRecord) {
	row := newFutureAuditRecord(rec)
	_ = r.DB(r.ctx).Create(&row).Error
}

func newFutureAuditRecord(rec future.AuditRecord) FutureAuditRecord {
	row := FutureAuditRecord{
		Value:     SecureString(rec.Value),
		Failed:    rec.Err != nil,
		CreatedAt: rec.At,
	}
	if rec.Err != nil {
		row.Error = rec.Err.Error()
	}
	return row
}

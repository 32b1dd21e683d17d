package score

import (
	"context"
	"time"

	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Named deltas applied by the ledger. The score has no floor or
// ceiling; only the lock threshold matters.
var (
	PassDelta     = decimal.RequireFromString("0.50")
	FailDelta     = decimal.RequireFromString("-0.20")
	MissedDelta   = decimal.RequireFromString("-1.00")
	LockThreshold = decimal.RequireFromString("3.00")
)

const LockDuration = 24 * time.Hour

// Ledger owns every mutation of a user's accountability score. A score
// that lands below the lock threshold locks all of the user's active
// goals in the same unit of work.
type Ledger interface {
	ApplyPass(ctx context.Context, u *user.User, delta *decimal.Decimal) error
	ApplyFail(ctx context.Context, u *user.User, delta *decimal.Decimal) error
	ApplyMissed(ctx context.Context, u *user.User) error
	WithTx(tx *gorm.DB) Ledger
}

type ledger struct {
	users  user.UserRepository
	locker LockManager
}

func NewLedger(users user.UserRepository, locker LockManager) Ledger {
	return &ledger{users: users, locker: locker}
}

func (l *ledger) ApplyPass(ctx context.Context, u *user.User, delta *decimal.Decimal) error {
	return l.applyDelta(ctx, u, orDefault(delta, PassDelta))
}

func (l *ledger) ApplyFail(ctx context.Context, u *user.User, delta *decimal.Decimal) error {
	return l.applyDelta(ctx, u, orDefault(delta, FailDelta))
}

func (l *ledger) ApplyMissed(ctx context.Context, u *user.User) error {
	return l.applyDelta(ctx, u, MissedDelta)
}

func (l *ledger) applyDelta(ctx context.Context, u *user.User, delta decimal.Decimal) error {
	log := config.WithContext(ctx)

	u.AccountabilityScore = u.AccountabilityScore.Add(delta)
	if err := l.users.Save(u); err != nil {
		log.WithError(err).Error("Failed to persist score change")
		return err
	}

	log.WithField("user_id", u.ID).Infof("Applied score delta %s, score now %s",
		delta.StringFixed(2), u.AccountabilityScore.StringFixed(2))

	if u.AccountabilityScore.LessThan(LockThreshold) {
		return l.locker.LockActiveGoals(ctx, u.ID, time.Now())
	}
	return nil
}

func (l *ledger) WithTx(tx *gorm.DB) Ledger {
	if tx == nil {
		return l
	}
	return &ledger{
		users:  l.users.WithTx(tx),
		locker: l.locker.WithTx(tx),
	}
}

func orDefault(delta *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if delta != nil {
		return *delta
	}
	return fallback
}

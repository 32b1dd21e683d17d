package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/judge"
	"github.com/ironwill-app/ironwill/internal/proofstore"
	"github.com/ironwill-app/ironwill/internal/score"
	"github.com/ironwill-app/ironwill/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrGoalLocked    = errors.New("goal locked")
	ErrInvalidProof  = errors.New("invalid proof file")
	ErrAuditNotFound = errors.New("audit not found")
)

// MaxProofBytes caps the accepted proof payload.
const MaxProofBytes = 5 << 20

const unavailableRemarks = "Judgment service unavailable. Please retry."

var acceptedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// TxRunner opens the write transaction around the audit upsert and the
// ledger follow-up. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type Service interface {
	Submit(ctx context.Context, userID, goalID uuid.UUID, proof Proof) (*SubmitResponse, error)
	FindToday(ctx context.Context, userID, goalID uuid.UUID) (*AuditLog, error)
}

type service struct {
	db     TxRunner
	repo   Repository
	goals  goal.GoalRepository
	users  user.UserRepository
	store  proofstore.Storage
	judge  judge.Provider
	ledger score.Ledger
}

func NewService(
	db TxRunner,
	repo Repository,
	goals goal.GoalRepository,
	users user.UserRepository,
	store proofstore.Storage,
	judgeProvider judge.Provider,
	ledger score.Ledger,
) Service {
	return &service{
		db:     db,
		repo:   repo,
		goals:  goals,
		users:  users,
		store:  store,
		judge:  judgeProvider,
		ledger: ledger,
	}
}

// Submit runs one proof submission end to end: preconditions, proof
// upload, the single judgment call, then the transactional
// upsert/score/lock sequence. The judgment call happens before the
// transaction opens so a slow judge never holds a row lock.
func (s *service) Submit(ctx context.Context, userID, goalID uuid.UUID, proof Proof) (*SubmitResponse, error) {
	log := config.WithContext(ctx)

	g, err := s.goals.FindByIDAndUserID(goalID, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load goal for submission")
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	if g.Status != goal.StatusActive {
		return nil, ErrGoalLocked
	}

	u, err := s.users.FindByID(userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user for submission")
		return nil, err
	}
	if u == nil {
		return nil, ErrGoalNotFound
	}

	if u.AccountabilityScore.LessThan(score.LockThreshold) {
		return nil, ErrGoalLocked
	}

	if err := validateProof(proof); err != nil {
		return nil, err
	}

	proofURL, err := s.store.Store(ctx, userID, goalID, proof.Data, proof.ContentType)
	if err != nil {
		return nil, err
	}

	loc := u.Location()
	now := time.Now().In(loc)

	req := &judge.AuditRequest{
		RequestID:        uuid.NewString(),
		UserID:           userID.String(),
		GoalID:           goalID.String(),
		GoalContext:      judge.GoalContext{Title: g.Title},
		Criteria:         judge.Criteria{Config: json.RawMessage(g.CriteriaConfig)},
		ProofURL:         proofURL,
		Timezone:         u.Timezone,
		CurrentTimeLocal: now.Format(time.RFC3339),
	}

	verdict, jerr := s.judge.Judge(ctx, req)
	if jerr != nil {
		log.WithError(jerr).Warn("No verdict from judgment service, recording technical difficulty")
	}

	status := StatusPending
	delta := decimal.Zero
	var gatewayDelta *decimal.Decimal
	remarks := unavailableRemarks
	var metrics json.RawMessage

	if jerr == nil && verdict != nil {
		if strings.EqualFold(verdict.Verdict, judge.VerdictPass) {
			status = StatusVerified
			delta = score.PassDelta
		} else {
			status = StatusRejected
			delta = score.FailDelta
		}
		if verdict.ScoreImpact != nil {
			d := decimal.NewFromFloat(*verdict.ScoreImpact)
			delta = d
			gatewayDelta = &d
		}
		remarks = verdict.Remarks
		metrics = verdict.ExtractedMetrics
	}

	rec := &AuditLog{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		audits := s.repo.WithTx(tx)

		existing, err := audits.FindByGoalAndDate(goalID, DateOf(now))
		if err != nil {
			return err
		}
		if existing != nil {
			// Same-day resubmission overwrites the earlier record.
			rec = existing
		}

		rec.GoalID = goalID
		rec.AuditDate = DateOf(now)
		rec.ProofURL = proofURL
		rec.Status = status
		rec.AgentRemarks = remarks
		rec.ScoreImpact = delta
		rec.SubmittedAt = time.Now()

		if existing == nil {
			if err := audits.Create(rec); err != nil {
				return err
			}
		} else {
			if err := audits.Update(rec); err != nil {
				return err
			}
		}

		switch status {
		case StatusVerified:
			return s.ledger.WithTx(tx).ApplyPass(ctx, u, gatewayDelta)
		case StatusRejected:
			return s.ledger.WithTx(tx).ApplyFail(ctx, u, gatewayDelta)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAudit) {
			return nil, ErrDuplicateAudit
		}
		log.WithError(err).Error("Failed to persist audit outcome")
		return nil, err
	}

	log.WithField("goal_id", goalID).Infof("Audit recorded with status %s", status)

	resp := &SubmitResponse{
		Verdict:          VerdictTechnicalDifficulty,
		ExtractedMetrics: metrics,
		ScoreDelta:       delta.InexactFloat64(),
	}
	if remarks != "" {
		r := remarks
		resp.Remarks = &r
	}
	switch status {
	case StatusVerified:
		resp.Verdict = VerdictPass
	case StatusRejected:
		resp.Verdict = VerdictFail
	}
	return resp, nil
}

func (s *service) FindToday(ctx context.Context, userID, goalID uuid.UUID) (*AuditLog, error) {
	g, err := s.goals.FindByIDAndUserID(goalID, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	u, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrGoalNotFound
	}

	rec, err := s.repo.FindByGoalAndDate(goalID, DateOf(time.Now().In(u.Location())))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrAuditNotFound
	}
	return rec, nil
}

func validateProof(proof Proof) error {
	if len(proof.Data) == 0 {
		return ErrInvalidProof
	}
	if len(proof.Data) > MaxProofBytes {
		return ErrInvalidProof
	}
	if !acceptedContentTypes[strings.ToLower(proof.ContentType)] {
		return ErrInvalidProof
	}
	return nil
}

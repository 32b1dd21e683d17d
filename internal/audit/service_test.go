package audit_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/audit"
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/judge"
	"github.com/ironwill-app/ironwill/internal/score"
	"github.com/ironwill-app/ironwill/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeTxRunner struct{}

func (fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeAuditRepo struct {
	records     map[string]*audit.AuditLog
	failCreate  error
	createCalls int
	updateCalls int
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{records: map[string]*audit.AuditLog{}}
}

func recordKey(goalID uuid.UUID, date datatypes.Date) string {
	return fmt.Sprintf("%s/%s", goalID, time.Time(date).Format("2006-01-02"))
}

func (f *fakeAuditRepo) FindByGoalAndDate(goalID uuid.UUID, date datatypes.Date) (*audit.AuditLog, error) {
	if rec, ok := f.records[recordKey(goalID, date)]; ok {
		return rec, nil
	}
	return nil, nil
}

func (f *fakeAuditRepo) Create(a *audit.AuditLog) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.createCalls++
	a.ID = uuid.New()
	f.records[recordKey(a.GoalID, a.AuditDate)] = a
	return nil
}

func (f *fakeAuditRepo) Update(a *audit.AuditLog) error {
	f.updateCalls++
	f.records[recordKey(a.GoalID, a.AuditDate)] = a
	return nil
}

func (f *fakeAuditRepo) WithTx(tx *gorm.DB) audit.Repository { return f }

type fakeGoalRepo struct {
	goals       map[uuid.UUID]*goal.Goal
	lockCalls   int
	lockedUntil time.Time
}

func newFakeGoalRepo(goals ...*goal.Goal) *fakeGoalRepo {
	m := map[uuid.UUID]*goal.Goal{}
	for _, g := range goals {
		m[g.ID] = g
	}
	return &fakeGoalRepo{goals: m}
}

func (f *fakeGoalRepo) Create(g *goal.Goal) error { return nil }

func (f *fakeGoalRepo) FindByIDAndUserID(id, userID uuid.UUID) (*goal.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, nil
	}
	return g, nil
}

func (f *fakeGoalRepo) FindAllByUserID(userID uuid.UUID) ([]*goal.Goal, error) { return nil, nil }

func (f *fakeGoalRepo) FindByUserAndStatus(userID uuid.UUID, status goal.GoalStatus) ([]*goal.Goal, error) {
	var out []*goal.Goal
	for _, g := range f.goals {
		if g.UserID == userID && g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) Update(g *goal.Goal) error { return nil }

func (f *fakeGoalRepo) LockAllActive(userID uuid.UUID, until time.Time) error {
	f.lockCalls++
	f.lockedUntil = until
	for _, g := range f.goals {
		if g.UserID == userID && g.Status == goal.StatusActive {
			u := until
			g.Status = goal.StatusLocked
			g.LockedUntil = &u
		}
	}
	return nil
}

func (f *fakeGoalRepo) WithTx(tx *gorm.DB) goal.GoalRepository { return f }

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	m := map[uuid.UUID]*user.User{}
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*user.User, error) { return f.users[id], nil }

func (f *fakeUserRepo) FindByEmail(email string) (*user.User, error) { return nil, nil }

func (f *fakeUserRepo) FindAll() ([]*user.User, error) { return nil, nil }

func (f *fakeUserRepo) Save(u *user.User) error { return nil }

func (f *fakeUserRepo) WithTx(tx *gorm.DB) user.UserRepository { return f }

type fakeStore struct {
	calls int
	uri   string
	err   error
}

func (f *fakeStore) Store(ctx context.Context, userID, goalID uuid.UUID, data []byte, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.uri, nil
}

type fakeJudge struct {
	calls   int
	lastReq *judge.AuditRequest
	resp    *judge.AuditResponse
	err     error
}

func (f *fakeJudge) Judge(ctx context.Context, req *judge.AuditRequest) (*judge.AuditResponse, error) {
	f.calls++
	f.lastReq = req
	return f.resp, f.err
}

type fixture struct {
	service audit.Service
	audits  *fakeAuditRepo
	goals   *fakeGoalRepo
	users   *fakeUserRepo
	store   *fakeStore
	judge   *fakeJudge
	user    *user.User
	goal    *goal.Goal
}

func newFixture(scoreStr string, status goal.GoalStatus, j *fakeJudge) *fixture {
	u := &user.User{
		ID:                  uuid.New(),
		Email:               "owner@example.com",
		Timezone:            "UTC",
		AccountabilityScore: decimal.RequireFromString(scoreStr),
	}
	g := &goal.Goal{
		ID:             uuid.New(),
		UserID:         u.ID,
		Title:          "Read 20 pages",
		Status:         status,
		CriteriaConfig: datatypes.JSON(`{"metric":"pages","target":20}`),
	}

	audits := newFakeAuditRepo()
	goals := newFakeGoalRepo(g)
	users := newFakeUserRepo(u)
	store := &fakeStore{uri: "s3://proofs/users/u/goals/g/today_digest"}
	ledger := score.NewLedger(users, score.NewLockManager(goals))

	return &fixture{
		service: audit.NewService(fakeTxRunner{}, audits, goals, users, store, j, ledger),
		audits:  audits,
		goals:   goals,
		users:   users,
		store:   store,
		judge:   j,
		user:    u,
		goal:    g,
	}
}

func validProof() audit.Proof {
	return audit.Proof{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}
}

func passJudge(remarks string) *fakeJudge {
	return &fakeJudge{resp: &judge.AuditResponse{
		Verdict:          judge.VerdictPass,
		Remarks:          remarks,
		ExtractedMetrics: json.RawMessage(`{"primary_value":21}`),
	}}
}

func failJudge(remarks string) *fakeJudge {
	return &fakeJudge{resp: &judge.AuditResponse{
		Verdict: judge.VerdictFail,
		Remarks: remarks,
	}}
}

func TestSubmitPass(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, passJudge("Target met."))

	resp, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if resp.Verdict != audit.VerdictPass {
		t.Errorf("verdict = %s, want PASS", resp.Verdict)
	}
	if resp.ScoreDelta != 0.5 {
		t.Errorf("score delta = %v, want 0.5", resp.ScoreDelta)
	}
	if !fx.user.AccountabilityScore.Equal(decimal.RequireFromString("5.50")) {
		t.Errorf("score = %s, want 5.50", fx.user.AccountabilityScore)
	}
	if fx.audits.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", fx.audits.createCalls)
	}

	rec, _ := fx.audits.FindByGoalAndDate(fx.goal.ID, audit.DateOf(time.Now().UTC()))
	if rec == nil {
		t.Fatal("no audit record persisted")
	}
	if rec.Status != audit.StatusVerified {
		t.Errorf("audit status = %s, want VERIFIED", rec.Status)
	}
	if rec.ProofURL != fx.store.uri {
		t.Errorf("proof url = %s, want %s", rec.ProofURL, fx.store.uri)
	}
}

func TestSubmitPassWithGatewayImpact(t *testing.T) {
	j := passJudge("Exceeded target.")
	impact := 0.75
	j.resp.ScoreImpact = &impact
	fx := newFixture("5.00", goal.StatusActive, j)

	resp, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if resp.ScoreDelta != 0.75 {
		t.Errorf("score delta = %v, want 0.75", resp.ScoreDelta)
	}
	if !fx.user.AccountabilityScore.Equal(decimal.RequireFromString("5.75")) {
		t.Errorf("score = %s, want 5.75", fx.user.AccountabilityScore)
	}
}

func TestSubmitFail(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, failJudge("Screenshot shows 5 pages."))

	resp, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if resp.Verdict != audit.VerdictFail {
		t.Errorf("verdict = %s, want FAIL", resp.Verdict)
	}
	if !fx.user.AccountabilityScore.Equal(decimal.RequireFromString("4.80")) {
		t.Errorf("score = %s, want 4.80", fx.user.AccountabilityScore)
	}

	rec, _ := fx.audits.FindByGoalAndDate(fx.goal.ID, audit.DateOf(time.Now().UTC()))
	if rec == nil || rec.Status != audit.StatusRejected {
		t.Errorf("audit record = %+v, want REJECTED", rec)
	}
}

func TestSubmitGatewayUnavailable(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, &fakeJudge{err: errors.New("connection refused")})

	resp, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if err != nil {
		t.Fatalf("Submit should absorb gateway failure, got error: %v", err)
	}

	if resp.Verdict != audit.VerdictTechnicalDifficulty {
		t.Errorf("verdict = %s, want TECHNICAL_DIFFICULTY", resp.Verdict)
	}
	if resp.ScoreDelta != 0 {
		t.Errorf("score delta = %v, want 0", resp.ScoreDelta)
	}
	if resp.Remarks == nil || *resp.Remarks != "Judgment service unavailable. Please retry." {
		t.Errorf("remarks = %v, want the fixed retry message", resp.Remarks)
	}
	if !fx.user.AccountabilityScore.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("score changed to %s on gateway failure", fx.user.AccountabilityScore)
	}
	if fx.goals.lockCalls != 0 {
		t.Error("lock evaluated on gateway failure")
	}

	rec, _ := fx.audits.FindByGoalAndDate(fx.goal.ID, audit.DateOf(time.Now().UTC()))
	if rec == nil || rec.Status != audit.StatusPending {
		t.Errorf("audit record = %+v, want PENDING", rec)
	}
}

func TestSubmitThresholdCrossingLocksAllGoals(t *testing.T) {
	j := failJudge("No proof of completion.")
	impact := -0.5
	j.resp.ScoreImpact = &impact
	fx := newFixture("3.10", goal.StatusActive, j)

	second := &goal.Goal{
		ID:     uuid.New(),
		UserID: fx.user.ID,
		Title:  "Morning run",
		Status: goal.StatusActive,
	}
	fx.goals.goals[second.ID] = second

	before := time.Now()
	if _, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !fx.user.AccountabilityScore.Equal(decimal.RequireFromString("2.60")) {
		t.Errorf("score = %s, want 2.60", fx.user.AccountabilityScore)
	}
	if fx.goals.lockCalls != 1 {
		t.Fatalf("lock calls = %d, want 1", fx.goals.lockCalls)
	}
	for _, g := range []*goal.Goal{fx.goal, second} {
		if g.Status != goal.StatusLocked {
			t.Errorf("goal %q status = %s, want LOCKED", g.Title, g.Status)
		}
		if g.LockedUntil == nil {
			t.Errorf("goal %q has no lockedUntil", g.Title)
			continue
		}
		want := before.Add(score.LockDuration)
		if g.LockedUntil.Before(want) || g.LockedUntil.After(want.Add(time.Minute)) {
			t.Errorf("goal %q lockedUntil = %s, want roughly %s", g.Title, g.LockedUntil, want)
		}
	}
}

func TestSubmitPreconditions(t *testing.T) {
	t.Run("GoalNotFound", func(t *testing.T) {
		fx := newFixture("5.00", goal.StatusActive, passJudge(""))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, uuid.New(), validProof())
		if !errors.Is(err, audit.ErrGoalNotFound) {
			t.Errorf("err = %v, want ErrGoalNotFound", err)
		}
		if fx.judge.calls != 0 {
			t.Error("judge called for a missing goal")
		}
	})

	t.Run("NotOwnedGoal", func(t *testing.T) {
		fx := newFixture("5.00", goal.StatusActive, passJudge(""))

		_, err := fx.service.Submit(context.Background(), uuid.New(), fx.goal.ID, validProof())
		if !errors.Is(err, audit.ErrGoalNotFound) {
			t.Errorf("err = %v, want ErrGoalNotFound", err)
		}
	})

	t.Run("LockedGoal", func(t *testing.T) {
		fx := newFixture("5.00", goal.StatusLocked, passJudge(""))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
		if !errors.Is(err, audit.ErrGoalLocked) {
			t.Errorf("err = %v, want ErrGoalLocked", err)
		}
	})

	t.Run("ArchivedGoal", func(t *testing.T) {
		fx := newFixture("5.00", goal.StatusArchived, passJudge(""))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
		if !errors.Is(err, audit.ErrGoalLocked) {
			t.Errorf("err = %v, want ErrGoalLocked", err)
		}
	})

	t.Run("ScoreBelowThreshold", func(t *testing.T) {
		fx := newFixture("2.50", goal.StatusActive, passJudge(""))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
		if !errors.Is(err, audit.ErrGoalLocked) {
			t.Errorf("err = %v, want ErrGoalLocked", err)
		}
		if fx.judge.calls != 0 {
			t.Error("judge called below the lock threshold")
		}
	})
}

func TestSubmitProofValidation(t *testing.T) {
	cases := []struct {
		name  string
		proof audit.Proof
	}{
		{"Empty", audit.Proof{Data: nil, ContentType: "image/jpeg"}},
		{"Oversized", audit.Proof{Data: bytes.Repeat([]byte("x"), 6<<20), ContentType: "image/png"}},
		{"UnsupportedType", audit.Proof{Data: []byte("gif-bytes"), ContentType: "image/gif"}},
		{"MissingType", audit.Proof{Data: []byte("bytes"), ContentType: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture("5.00", goal.StatusActive, passJudge(""))

			_, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, tc.proof)
			if !errors.Is(err, audit.ErrInvalidProof) {
				t.Errorf("err = %v, want ErrInvalidProof", err)
			}
			if fx.store.calls != 0 {
				t.Error("proof stored despite failing validation")
			}
			if fx.judge.calls != 0 {
				t.Error("judge called despite failing validation")
			}
		})
	}

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		fx := newFixture("5.00", goal.StatusActive, passJudge(""))
		proof := audit.Proof{Data: bytes.Repeat([]byte("x"), audit.MaxProofBytes), ContentType: "image/png"}

		if _, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, proof); err != nil {
			t.Errorf("a payload of exactly 5 MiB must be accepted, got %v", err)
		}
	})
}

func TestSubmitSameDayOverwrites(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, failJudge("Too blurry."))

	if _, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof()); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	fx.judge.resp = &judge.AuditResponse{Verdict: judge.VerdictPass, Remarks: "Clear now."}
	if _, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof()); err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	if len(fx.audits.records) != 1 {
		t.Fatalf("records = %d, want exactly 1 per goal/day", len(fx.audits.records))
	}
	if fx.audits.createCalls != 1 || fx.audits.updateCalls != 1 {
		t.Errorf("create/update calls = %d/%d, want 1/1", fx.audits.createCalls, fx.audits.updateCalls)
	}

	rec, _ := fx.audits.FindByGoalAndDate(fx.goal.ID, audit.DateOf(time.Now().UTC()))
	if rec.Status != audit.StatusVerified {
		t.Errorf("status after resubmission = %s, want VERIFIED", rec.Status)
	}
	if rec.AgentRemarks != "Clear now." {
		t.Errorf("remarks after resubmission = %q, want overwritten", rec.AgentRemarks)
	}
}

func TestSubmitConcurrentDuplicate(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, passJudge(""))
	fx.audits.failCreate = audit.ErrDuplicateAudit

	_, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if !errors.Is(err, audit.ErrDuplicateAudit) {
		t.Errorf("err = %v, want ErrDuplicateAudit", err)
	}
}

func TestFindTodayRoundTrip(t *testing.T) {
	fx := newFixture("5.00", goal.StatusActive, passJudge("Target met."))

	resp, err := fx.service.Submit(context.Background(), fx.user.ID, fx.goal.ID, validProof())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	rec, err := fx.service.FindToday(context.Background(), fx.user.ID, fx.goal.ID)
	if err != nil {
		t.Fatalf("FindToday failed: %v", err)
	}

	if rec.Status != audit.StatusVerified {
		t.Errorf("status = %s, want VERIFIED", rec.Status)
	}
	if resp.Remarks == nil || rec.AgentRemarks != *resp.Remarks {
		t.Errorf("remarks = %q, want %v", rec.AgentRemarks, resp.Remarks)
	}
	if rec.ScoreImpact.InexactFloat64() != resp.ScoreDelta {
		t.Errorf("score impact = %s, want %v", rec.ScoreImpact, resp.ScoreDelta)
	}

	t.Run("NoRecord", func(t *testing.T) {
		other := newFixture("5.00", goal.StatusActive, passJudge(""))
		_, err := other.service.FindToday(context.Background(), other.user.ID, other.goal.ID)
		if !errors.Is(err, audit.ErrAuditNotFound) {
			t.Errorf("err = %v, want ErrAuditNotFound", err)
		}
	})
}

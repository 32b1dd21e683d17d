package audit

import (
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/judge"
	"github.com/ironwill-app/ironwill/internal/proofstore"
	"github.com/ironwill-app/ironwill/internal/score"
	"github.com/ironwill-app/ironwill/internal/user"
	"gorm.io/gorm"
)

type AuditContainer struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewAuditContainer(
	db *gorm.DB,
	goals goal.GoalRepository,
	users user.UserRepository,
	store proofstore.Storage,
	judgeProvider judge.Provider,
	ledger score.Ledger,
) *AuditContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, goals, users, store, judgeProvider, ledger)
	handler := NewHandler(service)

	return &AuditContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}

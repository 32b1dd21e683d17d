package user

import (
	"github.com/ironwill-app/ironwill/internal/goal"
	"gorm.io/gorm"
)

type UserContainer struct {
	Handler *Handler
	Service Service
	Repo    UserRepository
}

func NewUserContainer(db *gorm.DB, goals goal.GoalRepository) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, goals)
	handler := NewHandler(service)

	return &UserContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}

package goal

import "gorm.io/gorm"

type GoalContainer struct {
	Handler *Handler
	Service Service
	Repo    GoalRepository
}

func NewGoalContainer(db *gorm.DB) *GoalContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &GoalContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}

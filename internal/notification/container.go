package notification

import "gorm.io/gorm"

type NotificationContainer struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewNotificationContainer(db *gorm.DB) *NotificationContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &NotificationContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}

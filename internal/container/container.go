package container

import (
	"context"
	"log"
	"os"

	"github.com/ironwill-app/ironwill/internal/audit"
	"github.com/ironwill-app/ironwill/internal/auth"
	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/judge"
	"github.com/ironwill-app/ironwill/internal/nag"
	"github.com/ironwill-app/ironwill/internal/notification"
	"github.com/ironwill-app/ironwill/internal/proofstore"
	"github.com/ironwill-app/ironwill/internal/score"
	"github.com/ironwill-app/ironwill/internal/user"
)

type Container struct {
	UserContainer         *user.UserContainer
	GoalContainer         *goal.GoalContainer
	AuditContainer        *audit.AuditContainer
	NotificationContainer *notification.NotificationContainer
	Scheduler             *nag.Scheduler
}

func New() *Container {
	config.Init()
	auth.Init()

	ctx := context.Background()
	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(ctx, dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	goalContainer := goal.NewGoalContainer(config.DB)
	userContainer := user.NewUserContainer(config.DB, goalContainer.Repo)
	notificationContainer := notification.NewNotificationContainer(config.DB)

	store, err := proofstore.NewS3Storage(ctx, proofstore.S3Config{
		Region:    config.Env("AWS_REGION", "us-east-1"),
		Bucket:    os.Getenv("PROOF_BUCKET"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
	})
	if err != nil {
		log.Fatalf("failed to init proof storage: %v", err)
	}

	judgeProvider := judge.NewHTTPProvider(
		os.Getenv("AGENT_BASE_URL"),
		os.Getenv("AGENT_INTERNAL_SECRET"),
	)

	ledger := score.NewLedger(
		userContainer.Repo,
		score.NewLockManager(goalContainer.Repo),
	)

	auditContainer := audit.NewAuditContainer(
		config.DB,
		goalContainer.Repo,
		userContainer.Repo,
		store,
		judgeProvider,
		ledger,
	)

	scheduler := nag.NewScheduler(
		userContainer.Repo,
		goalContainer.Repo,
		auditContainer.Repo,
		notificationContainer.Service,
	)

	return &Container{
		UserContainer:         userContainer,
		GoalContainer:         goalContainer,
		AuditContainer:        auditContainer,
		NotificationContainer: notificationContainer,
		Scheduler:             scheduler,
	}
}

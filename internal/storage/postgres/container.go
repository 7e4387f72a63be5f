package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/stagekit/greenroom-api/internal/config"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// Container bundles all repositories over one database connection
type Container struct {
	db              *gorm.DB
	log             *log.Logger
	eventRepo       EventRepository
	speakerRepo     SpeakerRepository
	requirementRepo RequirementRepository
	submissionRepo  SubmissionRepository
	reminderRepo    ReminderRepository
}

// NewContainer creates a repository container with all repositories
// initialized, running migrations on the way up.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:              db,
		log:             logger.Repository("postgres_container"),
		eventRepo:       NewPostgresEventRepository(db),
		speakerRepo:     NewPostgresSpeakerRepository(db),
		requirementRepo: NewPostgresRequirementRepository(db),
		submissionRepo:  NewPostgresSubmissionRepository(db),
		reminderRepo:    NewPostgresReminderRepository(db),
	}
}

// Health verifies the underlying database connection
func (c *Container) Health() error {
	return HealthCheck(c.db)
}

// DB returns the underlying gorm connection
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// Speakers returns the speaker repository
func (c *Container) Speakers() SpeakerRepository {
	return c.speakerRepo
}

// Requirements returns the asset requirement repository
func (c *Container) Requirements() RequirementRepository {
	return c.requirementRepo
}

// Submissions returns the submission ledger repository
func (c *Container) Submissions() SubmissionRepository {
	return c.submissionRepo
}

// Reminders returns the reminder repository
func (c *Container) Reminders() ReminderRepository {
	return c.reminderRepo
}

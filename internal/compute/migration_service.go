package compute

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/shared/api"
)

type migrationService struct {
	repo MigrationRepo

	now        func() time.Time
	randomUUID func() (uuid.UUID, error)
}

var _ MigrationService = &migrationService{}

type MigrationServiceOption func(s *migrationService)

func WithMigrationNow(now func() time.Time) MigrationServiceOption {
	return func(s *migrationService) {
		s.now = now
	}
}

func WithMigrationRandomUUID(randomUUID func() (uuid.UUID, error)) MigrationServiceOption {
	return func(s *migrationService) {
		s.randomUUID = randomUUID
	}
}

func NewMigrationService(repo MigrationRepo, opts ...MigrationServiceOption) migrationService {
	migrationSvc := migrationService{
		repo:       repo,
		now:        time.Now,
		randomUUID: uuid.NewRandom,
	}

	for _, opt := range opts {
		opt(&migrationSvc)
	}

	return migrationSvc
}

func (s migrationService) Create(ctx context.Context, migration Migration) (Migration, error) {
	if migration.UUID == uuid.Nil {
		id, err := s.randomUUID()
		if err != nil {
			return Migration{}, err
		}

		migration.UUID = id
	}

	if migration.Status == "" {
		migration.Status = api.MIGRATIONSTATUS_PRE_MIGRATING
	}

	migration.CreatedAt = s.now().UTC()
	migration.UpdatedAt = migration.CreatedAt

	err := migration.Validate()
	if err != nil {
		return Migration{}, err
	}

	return s.repo.Create(ctx, migration)
}

func (s migrationService) GetAll(ctx context.Context) (Migrations, error) {
	return s.repo.GetAll(ctx)
}

func (s migrationService) GetByUUID(ctx context.Context, id uuid.UUID) (Migration, error) {
	return s.repo.GetByUUID(ctx, id)
}

func (s migrationService) GetUnresolvedByServerUUID(ctx context.Context, serverUUID uuid.UUID) (Migration, error) {
	return s.repo.GetUnresolvedByServerUUID(ctx, serverUUID)
}

// Resolve moves the server's unresolved migration record into the given
// terminal status.
func (s migrationService) Resolve(ctx context.Context, serverUUID uuid.UUID, status api.MigrationStatusType) (Migration, error) {
	var migration Migration

	err := transaction.Do(ctx, func(ctx context.Context) error {
		var err error
		migration, err = s.repo.GetUnresolvedByServerUUID(ctx, serverUUID)
		if err != nil {
			return err
		}

		migration.Status = status
		migration.UpdatedAt = s.now().UTC()

		migration, err = s.repo.UpdateByUUID(ctx, migration)

		return err
	})
	if err != nil {
		return Migration{}, err
	}

	return migration, nil
}

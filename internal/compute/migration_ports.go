package compute

import (
	"context"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/shared/api"
)

//go:generate go run github.com/matryer/moq -fmt goimports -pkg mock -out repo/mock/migration_repo_mock_gen.go -rm . MigrationRepo

type MigrationRepo interface {
	Create(ctx context.Context, migration Migration) (Migration, error)
	GetAll(ctx context.Context) (Migrations, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (Migration, error)
	GetUnresolvedByServerUUID(ctx context.Context, serverUUID uuid.UUID) (Migration, error)
	UpdateByUUID(ctx context.Context, migration Migration) (Migration, error)
}

type MigrationService interface {
	Create(ctx context.Context, migration Migration) (Migration, error)
	GetAll(ctx context.Context) (Migrations, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (Migration, error)
	GetUnresolvedByServerUUID(ctx context.Context, serverUUID uuid.UUID) (Migration, error)
	Resolve(ctx context.Context, serverUUID uuid.UUID, status api.MigrationStatusType) (Migration, error)
}

package compute

import (
	"context"

	"github.com/google/uuid"
)

type ServerService interface {
	Create(ctx context.Context, server Server) (Server, error)
	GetAll(ctx context.Context) (Servers, error)
	GetAllWithFilter(ctx context.Context, filterExpression string) (Servers, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (Server, error)
	UpdateByUUID(ctx context.Context, server Server) (Server, error)
	DeleteByUUID(ctx context.Context, id uuid.UUID) error
}

//go:generate go run github.com/matryer/moq -fmt goimports -pkg mock -out repo/mock/server_repo_mock_gen.go -rm . ServerRepo

type ServerRepo interface {
	Create(ctx context.Context, server Server) (Server, error)
	GetAll(ctx context.Context) (Servers, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (Server, error)
	UpdateByUUID(ctx context.Context, server Server) (Server, error)
	DeleteByUUID(ctx context.Context, id uuid.UUID) error
}

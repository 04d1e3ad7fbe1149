package compute

import (
	"context"
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/shared/api"
)

type serverService struct {
	repo ServerRepo

	now        func() time.Time
	randomUUID func() (uuid.UUID, error)
}

var _ ServerService = &serverService{}

type ServerServiceOption func(s *serverService)

func WithNow(now func() time.Time) ServerServiceOption {
	return func(s *serverService) {
		s.now = now
	}
}

func WithRandomUUID(randomUUID func() (uuid.UUID, error)) ServerServiceOption {
	return func(s *serverService) {
		s.randomUUID = randomUUID
	}
}

func NewServerService(repo ServerRepo, opts ...ServerServiceOption) serverService {
	serverSvc := serverService{
		repo:       repo,
		now:        time.Now,
		randomUUID: uuid.NewRandom,
	}

	for _, opt := range opts {
		opt(&serverSvc)
	}

	return serverSvc
}

func (s serverService) Create(ctx context.Context, server Server) (Server, error) {
	if server.UUID == uuid.Nil {
		id, err := s.randomUUID()
		if err != nil {
			return Server{}, err
		}

		server.UUID = id
	}

	if server.Status == "" {
		server.Status = api.SERVERSTATUS_ACTIVE
		server.VMState = api.VMSTATE_ACTIVE
		server.PowerState = api.POWERSTATE_RUNNING
	}

	server.CreatedAt = s.now().UTC()
	server.UpdatedAt = server.CreatedAt

	err := server.Validate()
	if err != nil {
		return Server{}, err
	}

	return s.repo.Create(ctx, server)
}

func (s serverService) GetAll(ctx context.Context) (Servers, error) {
	return s.repo.GetAll(ctx)
}

func (s serverService) GetAllWithFilter(ctx context.Context, filterExpression string) (Servers, error) {
	if filterExpression == "" {
		return s.repo.GetAll(ctx)
	}

	program, err := compileServerFilter(filterExpression)
	if err != nil {
		return nil, NewValidationErrf("Invalid filter expression: %v", err)
	}

	servers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var filtered Servers
	for _, server := range servers {
		output, err := runServerFilter(program, server)
		if err != nil {
			return nil, NewValidationErrf("Failed to evaluate filter expression: %v", err)
		}

		if output {
			filtered = append(filtered, server)
		}
	}

	return filtered, nil
}

func (s serverService) GetByUUID(ctx context.Context, id uuid.UUID) (Server, error) {
	return s.repo.GetByUUID(ctx, id)
}

func (s serverService) UpdateByUUID(ctx context.Context, server Server) (Server, error) {
	err := server.Validate()
	if err != nil {
		return Server{}, err
	}

	server.UpdatedAt = s.now().UTC()

	return s.repo.UpdateByUUID(ctx, server)
}

func (s serverService) DeleteByUUID(ctx context.Context, id uuid.UUID) error {
	return transaction.Do(ctx, func(ctx context.Context) error {
		server, err := s.repo.GetByUUID(ctx, id)
		if err != nil {
			return err
		}

		if server.IsBusy() {
			return fmt.Errorf("Cannot delete server %q while task %q is in flight: %w", server.Name, server.TaskState, ErrStateConflict)
		}

		return s.repo.DeleteByUUID(ctx, id)
	})
}

func runServerFilter(program *vm.Program, server Server) (bool, error) {
	output, err := expr.Run(program, server.ToAPI())
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("Filter expression does not evaluate to boolean")
	}

	return result, nil
}

package compute

import (
	"context"

	"github.com/google/uuid"
)

// WorkOrder is the unit of work handed to the hypervisor backend for an
// admitted asynchronous action.
type WorkOrder struct {
	Server    Server
	Action    string
	Params    any
	Token     uuid.UUID
	AdminPass string
}

// Report is the completion report delivered by the hypervisor backend once a
// work order has finished. Params echoes the work order's parameters.
type Report struct {
	ServerUUID uuid.UUID
	Token      uuid.UUID
	Action     string
	Params     any
	Success    bool
	Message    string
}

//go:generate go run github.com/matryer/moq -fmt goimports -pkg mock -out ../hypervisor/mock/backend_mock_gen.go -rm . Backend

// Backend executes work orders against the hypervisor. Completion is
// delivered out of band as a Report.
type Backend interface {
	SubmitWorkOrder(ctx context.Context, order WorkOrder) error
}

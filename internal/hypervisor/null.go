package hypervisor

import (
	"context"

	"github.com/FuturFusion/compute-manager/internal/compute"
)

// NullBackend accepts every work order and reports immediate success. It is
// used when no hypervisor endpoint is configured.
type NullBackend struct {
	shutdownCtx context.Context
	reports     chan<- compute.Report
}

var _ compute.Backend = &NullBackend{}

// NewNullBackend creates a backend delivering its reports on the given
// channel. The shutdown context releases pending deliveries once the report
// consumer is gone.
func NewNullBackend(shutdownCtx context.Context, reports chan<- compute.Report) *NullBackend {
	return &NullBackend{
		shutdownCtx: shutdownCtx,
		reports:     reports,
	}
}

func (b *NullBackend) SubmitWorkOrder(ctx context.Context, order compute.WorkOrder) error {
	go func() {
		report := compute.Report{
			ServerUUID: order.Server.UUID,
			Token:      order.Token,
			Action:     order.Action,
			Params:     order.Params,
			Success:    true,
		}

		select {
		case b.reports <- report:
		case <-b.shutdownCtx.Done():
		}
	}()

	return nil
}

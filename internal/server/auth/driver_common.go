package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FuturFusion/compute-manager/internal/server/request"
)

// RequestDetails is a type representing an authorization request.
type RequestDetails struct {
	Username string
	Protocol string
}

type commonAuthorizer struct {
	driverName string
	logger     *slog.Logger
}

func (c *commonAuthorizer) init(driverName string, l *slog.Logger) error {
	if l == nil {
		return fmt.Errorf("Cannot initialize authorizer: nil logger provided")
	}

	c.driverName = driverName
	c.logger = l.With(slog.String("driver", driverName))
	return nil
}

func (c *commonAuthorizer) requestDetails(r *http.Request) (*RequestDetails, error) {
	if r == nil {
		return nil, fmt.Errorf("Cannot inspect nil request")
	}

	if r.URL == nil {
		return nil, fmt.Errorf("Request URL is not set")
	}

	username, err := request.GetContextValue[string](r.Context(), request.CtxUsername)
	if err != nil {
		return nil, err
	}

	protocol, err := request.GetContextValue[string](r.Context(), request.CtxProtocol)
	if err != nil {
		return nil, err
	}

	return &RequestDetails{
		Username: username,
		Protocol: protocol,
	}, nil
}

func (c *commonAuthorizer) Driver() string {
	return c.driverName
}

// StopService is a no-op for drivers without a background service.
func (c *commonAuthorizer) StopService(_ context.Context) error {
	return nil
}

package request

import (
	"context"
	"fmt"
	"net"
	"net/http"
)

// CtxKey is the type used for all fields stored in the request context.
type CtxKey string

// Context keys.
const (
	// CtxUsername is the username field in request context.
	CtxUsername CtxKey = "username"

	// CtxProtocol is the protocol field in request context.
	CtxProtocol CtxKey = "protocol"

	// CtxConn is the connection field in the request context.
	CtxConn CtxKey = "conn"
)

// SaveConnectionInContext can be set as the ConnContext field of a http.Server
// to set the connection in the request context for later use.
func SaveConnectionInContext(ctx context.Context, connection net.Conn) context.Context {
	return context.WithValue(ctx, CtxConn, connection)
}

// GetContextValue gets a value of type T from the context using the given key.
func GetContextValue[T any](ctx context.Context, key CtxKey) (T, error) {
	var empty T
	valueAny := ctx.Value(key)
	if valueAny == nil {
		return empty, fmt.Errorf("Value %q not present in request context", key)
	}

	value, ok := valueAny.(T)
	if !ok {
		return empty, fmt.Errorf("Value %q in request context has incorrect type", key)
	}

	return value, nil
}

// Protocol returns the protocol stored in the request context, or an empty
// string if none has been set.
func Protocol(r *http.Request) string {
	protocol, err := GetContextValue[string](r.Context(), CtxProtocol)
	if err != nil {
		return ""
	}

	return protocol
}

// Username returns the username stored in the request context, or an empty
// string if none has been set.
func Username(r *http.Request) string {
	username, err := GetContextValue[string](r.Context(), CtxUsername)
	if err != nil {
		return ""
	}

	return username
}

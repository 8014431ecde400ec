package logging

import (
	"context"

	"github.com/google/uuid"
)

type Module string

const (
	ModuleQueue        Module = "queue"
	ModuleDoses        Module = "doses"
	ModuleEntitlements Module = "entitlements"
	ModuleCore         Module = "core"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	moduleKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey, module)
}

func ModuleFrom(ctx context.Context) Module {
	m, _ := ctx.Value(moduleKey).(Module)

	return m
}

// ValidateAndExtractRequestID keeps a caller-supplied UUID and mints a fresh one otherwise.
func ValidateAndExtractRequestID(header string) string {
	if header != "" {
		if id, err := uuid.Parse(header); err == nil {
			return id.String()
		}
	}

	return uuid.Must(uuid.NewV7()).String()
}

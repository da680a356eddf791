package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/atv/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one audit record per
// validation: Info when it passed, Warn when it failed.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.ValidationEvent) {
		attrs := []any{
			"type", e.TypeName,
			"duration", e.Duration,
		}
		if e.FieldName != "" {
			attrs = append(attrs, "field", e.FieldName)
		}
		if e.Err != nil {
			attrs = append(attrs, "failed", e.Failed)
			logger.WarnContext(ctx, string(e.Type), attrs...)
			return
		}
		logger.InfoContext(ctx, string(e.Type), attrs...)
	}
	return domain.LifecycleHooks{
		OnValueValidated:    log,
		OnItemValidated:     log,
		OnItemListValidated: log,
	}
}

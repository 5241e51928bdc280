package service

import (
	"context"
	"log/slog"

	"dealboard/internal/middleware"
	"dealboard/internal/notifications"
)

// publishEvent announces ev. Delivery is best effort: the write it describes
// has already committed.
func publishEvent(ctx context.Context, p notifications.Publisher, ev notifications.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("type", ev.Type),
			slog.Uint64("post_id", uint64(ev.PostID)),
			slog.String("error", err.Error()))
	}
}

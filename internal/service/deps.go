package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/metrics"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	Issue(id tokens.Identity) (string, time.Time, error)
}

type QRGenerator interface {
	Generate(text string) (string, error)
}

const publishTimeout = 3 * time.Second

// publish never fails the caller; a lost event is logged and counted.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := pub.Publish(ctx, e)
	metrics.RecordEvent(e.Type, err)
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}

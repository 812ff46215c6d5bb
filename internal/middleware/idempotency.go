package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/coachbook/internal/metrics"
	"github.com/mansoorceksport/coachbook/internal/repository"
	"github.com/sirupsen/logrus"
)

const CorrelationIDHeader = "X-Correlation-ID"

// ResponseStore keeps replayable responses. Get returns repository.ErrCacheMiss
// for unknown keys.
type ResponseStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response of a PUT/POST request carrying an
// already seen X-Correlation-ID. Only 2xx responses are stored. Requests
// without the header, and all requests when the store is unreachable, go
// straight to the handler.
func Idempotency(store ResponseStore, ttl time.Duration, metricsManager *metrics.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		if correlationID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("idempotency:%s:%s:%s", c.Method(), c.Path(), correlationID)
		ctx := c.UserContext()

		var cached cachedResponse
		err := store.Get(ctx, key, &cached)
		switch {
		case err == nil:
			if metricsManager != nil {
				metricsManager.CounterIdempotentReplays.Inc()
			}
			c.Set("X-Idempotent-Replay", "true")
			if cached.ContentType != "" {
				c.Set(fiber.HeaderContentType, cached.ContentType)
			}
			return c.Status(cached.Status).Send(cached.Body)
		case !errors.Is(err, repository.ErrCacheMiss):
			logrus.WithError(err).Warn("idempotency lookup failed")
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}

		resp := cachedResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Set(setCtx, key, resp, ttl); err != nil {
			logrus.WithError(err).Warn("idempotency store failed")
		}
		return nil
	}
}

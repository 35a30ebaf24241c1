package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/app/deps"
	"saas-api/internal/domain/billing"
	"saas-api/internal/infra/events"
	"saas-api/internal/infra/lock"
	"saas-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxBodyBytes = 65536
	eventLockTTL = 2 * time.Minute
)

// errIgnored marks payloads that can never succeed. They are acknowledged
// so Stripe stops redelivering them.
var errIgnored = errors.New("event ignored")

func ignored(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errIgnored, fmt.Sprintf(format, args...))
}

// eventHandler applies one event inside tx. Events it returns are published
// once the transaction has committed.
type eventHandler func(ctx context.Context, tx *gorm.DB, raw json.RawMessage) ([]events.Event, error)

// finishEvent is replaced in tests.
var finishEvent = billing.FinishEvent

var handlers = map[string]eventHandler{
	"checkout.session.completed":    handleCheckoutSessionCompleted,
	"invoice.paid":                  handleInvoicePaid,
	"customer.subscription.updated": handleSubscriptionUpdated,
	"customer.subscription.deleted": handleSubscriptionDeleted,
}

func StripeWebhook(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}
	if config.STRIPE_WEBHOOK_SECRET == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		config.STRIPE_WEBHOOK_SECRET,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.Get().Warn("❌ Stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	log := logger.Get().With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	handle, ok := handlers[string(event.Type)]
	if !ok {
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	unlock, err := deps.Locker.TryLock(ctx, "stripe:event:"+event.ID, eventLockTTL)
	if errors.Is(err, lock.ErrLockHeld) {
		c.JSON(http.StatusConflict, gin.H{"error": "event is already being processed"})
		return
	}
	if err != nil {
		log.Error("event lock failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not lock event"})
		return
	}
	defer unlock()

	done, err := billing.BeginEvent(ctx, database.DB, billing.ProviderStripe, event.ID, string(event.Type))
	if err != nil {
		log.Error("event bookkeeping failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record event"})
		return
	}
	if done {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	// the ledger update and processed_at commit together, so a redelivery
	// can never apply an event twice
	var toPublish []events.Event
	handleErr := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		published, err := handle(ctx, tx, event.Data.Raw)
		if err != nil {
			return err
		}
		if err := finishEvent(ctx, tx, billing.ProviderStripe, event.ID, nil); err != nil {
			return fmt.Errorf("mark event processed: %w", err)
		}
		toPublish = published
		return nil
	})
	if handleErr != nil {
		if err := finishEvent(ctx, database.DB, billing.ProviderStripe, event.ID, handleErr); err != nil {
			log.Error("event bookkeeping failed", zap.Error(err))
		}
	}
	for _, ev := range toPublish {
		events.PublishAsync(deps.Events, ev)
	}

	switch {
	case handleErr == nil:
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	case errors.Is(handleErr, errIgnored):
		log.Warn("stripe event ignored", zap.Error(handleErr))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		// retryable, includes unknown customers
		log.Error("stripe event failed", zap.Error(handleErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": handleErr.Error()})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}

func customerID(cus *stripe.Customer) string {
	if cus == nil {
		return ""
	}
	return cus.ID
}

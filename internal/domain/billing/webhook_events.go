package billing

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ProviderStripe = "stripe"

// BeginEvent registers an incoming event. It reports true when the event was
// already processed successfully and must not be applied again. Events that
// failed earlier are handed back for another attempt.
func BeginEvent(ctx context.Context, db *gorm.DB, provider, eventID, eventType string) (bool, error) {
	ev := WebhookEvent{
		Provider:  provider,
		EventID:   eventID,
		EventType: eventType,
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ev).Error; err != nil {
		return false, fmt.Errorf("record webhook event: %w", err)
	}

	var stored WebhookEvent
	if err := db.WithContext(ctx).
		Where("provider = ? AND event_id = ?", provider, eventID).
		First(&stored).Error; err != nil {
		return false, fmt.Errorf("load webhook event: %w", err)
	}
	return stored.ProcessedAt != nil, nil
}

// FinishEvent stores the outcome of handling an event. A nil handleErr marks
// it processed.
func FinishEvent(ctx context.Context, db *gorm.DB, provider, eventID string, handleErr error) error {
	updates := map[string]interface{}{}
	if handleErr != nil {
		updates["processing_error"] = handleErr.Error()
	} else {
		updates["processed_at"] = time.Now().UTC()
		updates["processing_error"] = ""
	}
	return db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("provider = ? AND event_id = ?", provider, eventID).
		Updates(updates).Error
}

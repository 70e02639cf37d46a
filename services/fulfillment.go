package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"checkout-service/models"
	awspkg "checkout-service/pkg/aws"
)

// FulfillmentRecorder receives fulfillment records produced by the webhook
// dispatcher. Records are not deduplicated; Stripe redelivery yields one record
// per delivery.
type FulfillmentRecorder interface {
	Record(ctx context.Context, rec models.FulfillmentRecord) error
}

// LogFulfillmentRecorder logs every record and, when a topic is configured,
// publishes it to SNS. A publish failure is logged but does not fail the
// record: the webhook must still be acknowledged.
type LogFulfillmentRecorder struct {
	logger    *zap.Logger
	publisher awspkg.SNSPublisher
	topicARN  string
}

func NewFulfillmentRecorder(logger *zap.Logger, publisher awspkg.SNSPublisher, topicARN string) *LogFulfillmentRecorder {
	return &LogFulfillmentRecorder{
		logger:    logger,
		publisher: publisher,
		topicARN:  topicARN,
	}
}

func (r *LogFulfillmentRecorder) Record(ctx context.Context, rec models.FulfillmentRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	fields := []zap.Field{
		zap.String("record_id", rec.RecordID),
		zap.String("session_id", rec.SessionID),
		zap.String("status", rec.Status),
	}
	if rec.CustomerEmail != "" {
		fields = append(fields, zap.String("customer_email", rec.CustomerEmail))
	}
	if rec.Amount > 0 {
		fields = append(fields,
			zap.Int64("amount", rec.Amount),
			zap.String("currency", rec.Currency),
		)
	}
	if rec.ExpiredAt != nil {
		fields = append(fields, zap.Time("expired_at", *rec.ExpiredAt))
	}
	if len(rec.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", rec.Metadata))
	}
	r.logger.Info("Order fulfillment logged", fields...)

	if r.publisher == nil || r.topicARN == "" {
		return nil
	}

	msg, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	attrs := map[string]string{"event_type": "fulfillment_" + rec.Status}
	if err := r.publisher.Publish(ctx, r.topicARN, msg, attrs); err != nil {
		r.logger.Error("Failed to publish fulfillment event",
			zap.String("record_id", rec.RecordID),
			zap.String("session_id", rec.SessionID),
			zap.Error(err),
		)
	}

	return nil
}

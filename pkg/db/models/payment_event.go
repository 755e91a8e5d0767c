package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// PaymentEvent records each payment notification consumed by the reconciler.
// The (reference, event_type) pair is unique: an event is consumed exactly
// once, redeliveries hit the constraint and fall through as no-ops.
type PaymentEvent struct {
	ID                    uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Provider              string        `gorm:"column:provider;not null;default:'paystack'"`
	EventType             string        `gorm:"column:event_type;not null;uniqueIndex:idx_payment_events_ref_type"`
	Reference             string        `gorm:"column:reference;not null;uniqueIndex:idx_payment_events_ref_type"`
	ExternalTransactionID *string       `gorm:"column:external_transaction_id"`
	SignatureHash         *string       `gorm:"column:signature_hash"`
	Payload               types.JSONMap `gorm:"column:payload;type:jsonb;serializer:json"`
	ProcessedAt           time.Time     `gorm:"column:processed_at;autoCreateTime"`
}

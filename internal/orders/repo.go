package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	"github.com/masego-dev/kasieats-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "payment_reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListFilters narrows the back-office order listing.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Limit         int
	Cursor        *pagination.Cursor
}

// List returns up to limit+1 rows in keyset order so the caller can detect
// whether another page exists.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			filters.Cursor.CreatedAt, filters.Cursor.CreatedAt, filters.Cursor.ID,
		)
	}

	var orders []models.Order
	if err := query.Limit(pagination.LimitWithBuffer(filters.Limit)).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkPaid flips the payment axis to paid iff it is still pending. The
// conditional WHERE makes the transition atomic under concurrent webhook and
// verification deliveries; zero rows affected means someone already won.
func (r *repository) MarkPaid(ctx context.Context, reference string, details PaidDetails) (bool, error) {
	updates := map[string]any{
		"payment_status": enums.PaymentStatusPaid,
		"updated_at":     time.Now(),
	}
	if details.Channel != nil {
		updates["payment_channel"] = *details.Channel
	}
	if details.ExternalTransactionID != nil {
		updates["external_transaction_id"] = *details.ExternalTransactionID
	}
	if details.PaidAt != nil {
		updates["paid_at"] = *details.PaidAt
	} else {
		updates["paid_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND payment_status = ?", reference, enums.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkPaymentFailed(ctx context.Context, reference string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND payment_status = ?", reference, enums.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusFailed,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConfirmPending advances the kitchen axis pending -> confirmed. Guarded the
// same way as MarkPaid so status can never regress on redelivery.
func (r *repository) ConfirmPending(ctx context.Context, reference string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND status = ?", reference, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":     enums.OrderStatusConfirmed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RecordPaymentEvent inserts the consumed-event marker. Returns false when
// the (reference, event_type) pair was already recorded. The insert uses
// ON CONFLICT DO NOTHING so a duplicate never aborts the surrounding
// transaction on postgres.
func (r *repository) RecordPaymentEvent(ctx context.Context, event *models.PaymentEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}, {Name: "event_type"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

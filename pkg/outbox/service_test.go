package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestEmitStoresEnvelope(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepository(db), nil)

	orderID := uuid.New()
	err := svc.Emit(context.Background(), db, DomainEvent{
		EventType:     enums.EventOrderPaid,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Data:          map[string]any{"reference": "kasi_1700000000_a1b2c3"},
	})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	var row models.OutboxEvent
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load outbox row: %v", err)
	}
	if row.EventType != enums.EventOrderPaid || row.AggregateID != orderID {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.PublishedAt != nil {
		t.Fatal("new event must be unpublished")
	}

	var envelope PayloadEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.EventID == "" || envelope.OccurredAt.IsZero() || envelope.Version != 1 {
		t.Fatalf("incomplete envelope: %+v", envelope)
	}
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(openTestDB(t)), nil)
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatal("expected error for nil transaction")
	}
}

func TestFetchMarkPublishedAndFailed(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	for i := 0; i < 3; i++ {
		if err := svc.Emit(context.Background(), db, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Data:          map[string]int{"seq": i},
		}); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}

	rows, err := repo.FetchUnpublished(10, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 unpublished rows, got %d", len(rows))
	}

	if err := repo.MarkPublished(rows[0].ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	if err := repo.MarkFailed(rows[1].ID, errors.New("publish timeout")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	remaining, err := repo.FetchUnpublished(10, 10)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 unpublished rows after publish, got %d", len(remaining))
	}

	exhausted, err := repo.FetchUnpublished(10, 1)
	if err != nil {
		t.Fatalf("refetch with attempt cap: %v", err)
	}
	if len(exhausted) != 1 {
		t.Fatalf("expected failed row to be excluded at cap 1, got %d rows", len(exhausted))
	}

	var failed models.OutboxEvent
	if err := db.First(&failed, "id = ?", rows[1].ID).Error; err != nil {
		t.Fatalf("load failed row: %v", err)
	}
	if failed.AttemptCount != 1 || failed.LastError == nil {
		t.Fatalf("expected attempt bookkeeping, got %+v", failed)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masego-dev/kasieats-backend/pkg/config"
	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	fetchErr  error
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, _ error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePubSub struct {
	pingErr error
}

func (f *fakePubSub) Ping(context.Context) error            { return f.pingErr }
func (f *fakePubSub) OrdersPublisher() *gcppubsub.Publisher { return nil }
func (f *fakePubSub) OrdersTopic() string                   { return "kasieats-order-events" }

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "msg-1", nil
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	errs     map[int]error
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	index := len(p.messages)
	p.messages = append(p.messages, msg)
	if err, ok := p.errs[index]; ok {
		return fakeResult{err: err}
	}
	return fakeResult{}
}

func outboxEvent(t *testing.T, seq int) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]int{"seq": seq})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     "order.created",
		AggregateType: "order",
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Date(2026, 8, 30, 12, 0, seq, 0, time.UTC),
	}
}

func newPublisherService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		PubSub:     &fakePubSub{},
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesInOrder(t *testing.T) {
	first := outboxEvent(t, 0)
	second := outboxEvent(t, 1)
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{}
	svc := newPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())

	require.NoError(t, err)
	assert.True(t, processed)
	require.Len(t, pub.messages, 2)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, repo.published)
	assert.Empty(t, repo.failed)

	attrs := pub.messages[0].Attributes
	assert.Equal(t, "order.created", attrs["event_type"])
	assert.Equal(t, first.AggregateID.String(), attrs["aggregate_id"])
	assert.JSONEq(t, `{"seq":0}`, string(pub.messages[0].Data))
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	first := outboxEvent(t, 0)
	second := outboxEvent(t, 1)
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{errs: map[int]error{0: errors.New("publish timeout")}}
	svc := newPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())

	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []uuid.UUID{first.ID}, repo.failed)
	assert.Equal(t, []uuid.UUID{second.ID}, repo.published)
}

func TestProcessBatchIdleTable(t *testing.T) {
	repo := &fakeRepo{}
	svc := newPublisherService(t, repo, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())

	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := &fakeRepo{}
	svc := newPublisherService(t, repo, &fakePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFailsWhenPubSubUnreachable(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: &fakeRepo{},
		PubSub:     &fakePubSub{pingErr: errors.New("topic missing")},
		Publisher:  &fakePublisher{},
	})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pubsub ping failed")
}

package enums

// Domain event types emitted through the transactional outbox.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderPaymentFailed = "order.payment_failed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderRefunded      = "order.refunded"
)

// Aggregate types referenced by outbox events.
const (
	AggregateOrder = "order"
)

package domain

import "time"

const (
	EventOrderPlaced    = "order.placed"
	EventOrderUpdated   = "order.updated"
	EventOrderCancelled = "order.cancelled"
)

type OrderEvent struct {
	OrderID    uint64      `json:"orderId"`
	UserID     uint64      `json:"userId"`
	ProductID  uint64      `json:"productId"`
	Quantity   int         `json:"quantity"`
	StockDelta int         `json:"stockDelta"`
	Status     OrderStatus `json:"status"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func NewOrderEvent(o *Order, stockDelta int, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		StockDelta: stockDelta,
		Status:     o.Status,
		OccurredAt: at,
	}
}

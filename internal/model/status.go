package model

import "github.com/crudlab/dualstore/internal/apperr"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the full transition table. Delivered and cancelled are
// terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CheckTransition validates a status change against the transition table.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return apperr.Validationf("invalid order status: %s", to)
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.Validationf("cannot transition order from %s to %s", from, to)
}

package domain

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeCounter  OrderType = "counter"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusDispatched Status = "dispatched"
	StatusArrived    Status = "arrived"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// deliveryTransitions is the legal status graph for courier-delivered orders.
var deliveryTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusArrived, StatusDelivered, StatusCancelled},
	StatusArrived:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// counterTransitions is the graph for in-store pickup orders. There is no
// courier hand-off, and the order can jump straight to delivered once the
// customer picks it up at the counter.
var counterTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusDelivered, StatusCancelled},
	StatusPreparing: {StatusReady, StatusDelivered, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// TransitionsFor returns the transition table for the given order type.
// Anything that is not a counter order uses the delivery table.
func TransitionsFor(t OrderType) map[Status][]Status {
	if t == OrderTypeCounter {
		return counterTransitions
	}
	return deliveryTransitions
}

// AllowedNext returns the statuses reachable in one step from the given status.
func AllowedNext(t OrderType, from Status) []Status {
	return TransitionsFor(t)[from]
}

// CanTransition reports whether the order type's table has an edge from -> to.
func CanTransition(t OrderType, from, to Status) bool {
	for _, s := range AllowedNext(t, from) {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady,
		StatusDispatched, StatusArrived, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

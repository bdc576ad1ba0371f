package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusPending, StatusAccepted, StatusPreparing, StatusReady,
	StatusDispatched, StatusArrived, StatusDelivered, StatusCancelled,
}

func TestDeliveryTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusAccepted, StatusCancelled},
		StatusAccepted:   {StatusPreparing, StatusCancelled},
		StatusPreparing:  {StatusReady, StatusCancelled},
		StatusReady:      {StatusDispatched, StatusCancelled},
		StatusDispatched: {StatusArrived, StatusDelivered, StatusCancelled},
		StatusArrived:    {StatusDelivered, StatusCancelled},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := contains(allowed[from], to)
			got := CanTransition(OrderTypeDelivery, from, to)
			assert.Equal(t, want, got, "delivery %s -> %s", from, to)
		}
	}
}

func TestCounterTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusAccepted, StatusCancelled},
		StatusAccepted:  {StatusPreparing, StatusDelivered, StatusCancelled},
		StatusPreparing: {StatusReady, StatusDelivered, StatusCancelled},
		StatusReady:     {StatusDelivered, StatusCancelled},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := contains(allowed[from], to)
			got := CanTransition(OrderTypeCounter, from, to)
			assert.Equal(t, want, got, "counter %s -> %s", from, to)
		}
	}
}

func TestCounterOrdersNeverDispatch(t *testing.T) {
	for _, from := range allStatuses {
		assert.False(t, CanTransition(OrderTypeCounter, from, StatusDispatched), "counter %s -> dispatched", from)
		assert.False(t, CanTransition(OrderTypeCounter, from, StatusArrived), "counter %s -> arrived", from)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, typ := range []OrderType{OrderTypeDelivery, OrderTypeCounter} {
		for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
			assert.True(t, IsTerminal(terminal))
			assert.Empty(t, AllowedNext(typ, terminal), "%s %s should be terminal", typ, terminal)
		}
	}
}

func TestUnknownOrderTypeUsesDeliveryTable(t *testing.T) {
	assert.True(t, CanTransition(OrderType("whatever"), StatusReady, StatusDispatched))
	assert.False(t, CanTransition(OrderType("whatever"), StatusReady, StatusDelivered))
}

func TestValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, ValidStatus(s), "%s", s)
	}
	assert.False(t, ValidStatus(Status("shipped")))
	assert.False(t, ValidStatus(Status("")))
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

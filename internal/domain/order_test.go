package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeliveryOrder() *Order {
	o := &Order{
		ID:          "order-1",
		Type:        OrderTypeDelivery,
		Status:      StatusPending,
		Subtotal:    decimal.NewFromFloat(100),
		Discount:    decimal.NewFromFloat(10),
		DeliveryFee: decimal.NewFromFloat(6.90),
		CreatedAt:   time.Now(),
	}
	o.RecomputeTotal()
	return o
}

func TestTransitionStampsTimestampOnce(t *testing.T) {
	o := newDeliveryOrder()
	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, o.Transition(StatusAccepted, first))
	assert.Equal(t, StatusAccepted, o.Status)
	require.NotNil(t, o.AcceptedAt)
	assert.Equal(t, first, *o.AcceptedAt)
}

func TestTransitionRejectsSkippedStep(t *testing.T) {
	o := newDeliveryOrder()

	err := o.Transition(StatusDispatched, time.Now())
	require.Error(t, err)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPending, transitionErr.Current)
	assert.Equal(t, StatusDispatched, transitionErr.Requested)
	assert.Equal(t, []Status{StatusAccepted, StatusCancelled}, transitionErr.Allowed)

	assert.Equal(t, StatusPending, o.Status)
	assert.Nil(t, o.DispatchedAt)
}

func TestCancelFromAnyNonTerminalStatus(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusDispatched, StatusArrived} {
		o := newDeliveryOrder()
		o.Status = from
		assert.NoError(t, o.Transition(StatusCancelled, time.Now()), "from %s", from)
	}

	for _, from := range []Status{StatusDelivered, StatusCancelled} {
		o := newDeliveryOrder()
		o.Status = from
		assert.Error(t, o.Transition(StatusCancelled, time.Now()), "from %s", from)
	}
}

func TestAssignMotoboyRequiresReady(t *testing.T) {
	for _, from := range allStatuses {
		o := newDeliveryOrder()
		o.Status = from

		err := o.AssignMotoboy("moto-1", time.Now())
		if from == StatusReady {
			require.NoError(t, err, "from %s", from)
			assert.Equal(t, StatusDispatched, o.Status)
			require.NotNil(t, o.MotoboyID)
			assert.Equal(t, "moto-1", *o.MotoboyID)
			assert.NotNil(t, o.DispatchedAt)
			continue
		}

		var preconditionErr *PreconditionFailedError
		require.ErrorAs(t, err, &preconditionErr, "from %s", from)
		assert.Equal(t, StatusReady, preconditionErr.Required)
		assert.Equal(t, from, preconditionErr.Actual)
		assert.Nil(t, o.MotoboyID)
	}
}

func TestOverrideDeliveryFeeKeepsFirstOriginal(t *testing.T) {
	o := newDeliveryOrder()
	assert.Equal(t, "96.90", o.Total.StringFixed(2))

	now := time.Now()
	require.NoError(t, o.OverrideDeliveryFee(decimal.NewFromFloat(12), now))
	assert.Equal(t, "12.00", o.DeliveryFee.StringFixed(2))
	assert.Equal(t, "102.00", o.Total.StringFixed(2))
	assert.True(t, o.DeliveryFeeAdjusted)
	require.NotNil(t, o.OriginalDeliveryFee)
	assert.Equal(t, "6.90", o.OriginalDeliveryFee.StringFixed(2))

	// Second override keeps the pre-adjustment fee as the original.
	require.NoError(t, o.OverrideDeliveryFee(decimal.NewFromFloat(15), now))
	assert.Equal(t, "15.00", o.DeliveryFee.StringFixed(2))
	assert.Equal(t, "105.00", o.Total.StringFixed(2))
	assert.Equal(t, "6.90", o.OriginalDeliveryFee.StringFixed(2))
}

func TestOverrideDeliveryFeeRejectsNegative(t *testing.T) {
	o := newDeliveryOrder()
	err := o.OverrideDeliveryFee(decimal.NewFromFloat(-1), time.Now())
	assert.ErrorIs(t, err, ErrInvalidFee)
	assert.False(t, o.DeliveryFeeAdjusted)
	assert.Equal(t, "96.90", o.Total.StringFixed(2))
}

func TestOverrideDeliveryFeeToZeroIsAllowed(t *testing.T) {
	o := newDeliveryOrder()
	require.NoError(t, o.OverrideDeliveryFee(decimal.Zero, time.Now()))
	assert.Equal(t, "0.00", o.DeliveryFee.StringFixed(2))
	assert.Equal(t, "90.00", o.Total.StringFixed(2))
}

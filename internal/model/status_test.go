package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crudlab/dualstore/internal/apperr"
)

func TestCheckTransitionAllowed(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		require.NoError(t, CheckTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCheckTransitionRejected(t *testing.T) {
	rejected := []struct{ from, to OrderStatus }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusProcessing},
		{StatusShipped, StatusShipped},
	}
	for _, tc := range rejected {
		err := CheckTransition(tc.from, tc.to)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		require.Equal(t, apperr.Validation, apperr.KindOf(err))
	}
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	err := CheckTransition(StatusPending, OrderStatus("archived"))
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusPending.Valid())
	require.True(t, StatusCancelled.Valid())
	require.False(t, OrderStatus("").Valid())
	require.False(t, OrderStatus("archived").Valid())
}

package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" completed ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)

	_, err = ParseStatus("DONE")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))
}

func TestCanComplete(t *testing.T) {
	assert.NoError(t, CanComplete(StatusPlanned))
	assert.True(t, httperr.IsBusiness(CanComplete(StatusCompleted), httperr.CodeAlreadyCompleted))
	assert.True(t, httperr.IsBusiness(CanComplete(StatusCancelled), httperr.CodeAppointmentCanceled))
}

func TestClassifyTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     LedgerEffect
	}{
		{StatusPlanned, StatusCompleted, LedgerConsume},
		{StatusCancelled, StatusCompleted, LedgerConsume},
		{StatusCompleted, StatusPlanned, LedgerRestore},
		{StatusCompleted, StatusCancelled, LedgerRestore},
		{StatusPlanned, StatusCancelled, LedgerNone},
		{StatusCancelled, StatusPlanned, LedgerNone},
		{StatusCompleted, StatusCompleted, LedgerNone},
		{StatusPlanned, StatusPlanned, LedgerNone},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionStamps(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPlanned)}

	Transition(ap, StatusCompleted, at(12, 0))
	require.NotNil(t, ap.CompletedAt)
	assert.Nil(t, ap.CancelledAt)

	Transition(ap, StatusCancelled, at(13, 0))
	assert.Nil(t, ap.CompletedAt)
	require.NotNil(t, ap.CancelledAt)
	assert.Equal(t, at(13, 0), *ap.CancelledAt)

	Transition(ap, StatusPlanned, at(14, 0))
	assert.Nil(t, ap.CompletedAt)
	assert.Nil(t, ap.CancelledAt)
	assert.Equal(t, "PLANNED", ap.Status)
}

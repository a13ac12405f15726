package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func TestTimeslots(t *testing.T) {
	slots, err := Timeslots(model.OpeningHour{OpenTime: "11:00", CloseTime: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30", "12:00", "12:30", "13:00"}, slots,
		"last slot starts one hour before closing")
}

func TestTimeslotsShortWindow(t *testing.T) {
	// A window shorter than one slot offers nothing.
	slots, err := Timeslots(model.OpeningHour{OpenTime: "11:00", CloseTime: "11:30"})
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Exactly one slot fits.
	slots, err = Timeslots(model.OpeningHour{OpenTime: "11:00", CloseTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, slots)
}

func TestTimeslotsInvalidHours(t *testing.T) {
	_, err := Timeslots(model.OpeningHour{OpenTime: "nope", CloseTime: "12:00"})
	assert.ErrorIs(t, err, ErrInvalidTime)
}

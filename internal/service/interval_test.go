package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 1, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{"identical", at(18, 0), at(19, 0), at(18, 0), at(19, 0), true},
		{"one minute overlap", at(18, 0), at(19, 0), at(18, 59), at(19, 59), true},
		{"contained", at(18, 0), at(19, 0), at(18, 15), at(18, 45), true},
		{"back to back after", at(18, 0), at(19, 0), at(19, 0), at(20, 0), false},
		{"back to back before", at(18, 0), at(19, 0), at(17, 0), at(18, 0), false},
		{"disjoint", at(12, 0), at(13, 0), at(18, 0), at(19, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestNormalizeDay(t *testing.T) {
	d := NormalizeDay(time.Date(2026, 9, 1, 23, 45, 12, 99, time.UTC))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)

	// A local-time evening past UTC midnight lands on the UTC day.
	loc := time.FixedZone("UTC+3", 3*3600)
	d = NormalizeDay(time.Date(2026, 9, 2, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "7:30", "25:00", "12:60", "ab:cd", "12-30"} {
		_, _, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", bad)
	}
}

func TestSlotBounds(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := SlotBounds(day, "18:30")
	require.NoError(t, err)
	assert.Equal(t, at(18, 30), start)
	assert.Equal(t, at(19, 30), end)
	assert.Equal(t, SlotDuration, end.Sub(start))
}

func TestCapacityForParty(t *testing.T) {
	want := map[uint32]uint32{1: 2, 2: 2, 3: 4, 4: 4, 5: 6, 6: 6, 7: 8, 8: 8}
	for persons, capacity := range want {
		got, ok := CapacityForParty(persons)
		require.True(t, ok, "persons=%d", persons)
		assert.Equal(t, capacity, got, "persons=%d", persons)
	}
	for _, persons := range []uint32{0, 9, 100} {
		_, ok := CapacityForParty(persons)
		assert.False(t, ok, "persons=%d", persons)
	}
}

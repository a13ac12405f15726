package service

import (
	"fmt"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// timeslotStep is the spacing between bookable start times offered to
// the widget.  Slots still occupy a full SlotDuration on the table.
const timeslotStep = 30 * time.Minute

// Timeslots produces the bookable "HH:mm" start times for one opening
// window.  Slots step every 30 minutes from the opening time; the last
// slot starts SlotDuration before closing so the reservation finishes
// while the restaurant is open.
func Timeslots(hours model.OpeningHour) ([]string, error) {
	openH, openM, err := ParseClock(hours.OpenTime)
	if err != nil {
		return nil, err
	}
	closeH, closeM, err := ParseClock(hours.CloseTime)
	if err != nil {
		return nil, err
	}
	open := time.Duration(openH)*time.Hour + time.Duration(openM)*time.Minute
	close := time.Duration(closeH)*time.Hour + time.Duration(closeM)*time.Minute

	var slots []string
	for t := open; t+SlotDuration <= close; t += timeslotStep {
		h := int(t / time.Hour)
		m := int(t % time.Hour / time.Minute)
		slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
	}
	return slots, nil
}

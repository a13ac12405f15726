package model

// OpeningHour defines when a restaurant accepts bookings on one weekday,
// stored in the `opening_hours` table.  Times are "HH:mm" strings in the
// restaurant's presentation; the service layer turns them into bookable
// timeslots for the widget.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the hours belong to.
//  Weekday      – 0 (Sunday) through 6 (Saturday), matching time.Weekday.
//  OpenTime     – first bookable time, e.g. "11:00".
//  CloseTime    – closing time, e.g. "22:00"; the last slot starts one hour before.
type OpeningHour struct {
	ID           uint64 // opening_hours.id
	RestaurantID uint64 // opening_hours.restaurant_id
	Weekday      uint8  // opening_hours.weekday
	OpenTime     string // opening_hours.open_time
	CloseTime    string // opening_hours.close_time
}

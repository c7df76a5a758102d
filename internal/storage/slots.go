package storage

import "time"

// Business hours: hourly slots from open through the last start time.
const (
	openHour      = 9
	lastSlotStart = 16
)

// BusinessSlots returns every bookable start time for a day, formatted the
// way slots are shown to clients ("9:00 AM").
func BusinessSlots(date time.Time) []string {
	var slots []string
	for hour := openHour; hour <= lastSlotStart; hour++ {
		t := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
		slots = append(slots, t.Format("3:04 PM"))
	}
	return slots
}

package dto

// DayAvailability is one open day inside the scan window with its free slots
// in ascending order.
type DayAvailability struct {
	Date    string   `json:"date"`
	Display string   `json:"display"`
	Slots   []string `json:"slots"`
}

type AvailabilityResponse struct {
	Days []DayAvailability `json:"days"`
}

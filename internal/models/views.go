package models

// Filters selects appointments for the list view. FilterAll disables a
// filter; DateRange accepts DateRangeToday and DateRangeWeek, anything else
// keeps every date.
type Filters struct {
	Status    string `json:"status"`
	Stylist   string `json:"stylist"`
	DateRange string `json:"dateRange"`
}

// NoFilters keeps every appointment.
func NoFilters() Filters {
	return Filters{Status: FilterAll, Stylist: FilterAll, DateRange: FilterAll}
}

type DayAggregate struct {
	Date           string  `json:"date"`
	Count          int     `json:"count"`
	CompletedCount int     `json:"completedCount"`
	PendingCount   int     `json:"pendingCount"`
	Revenue        float64 `json:"revenue"`
}

type CalendarCell struct {
	Date         string        `json:"date"`
	Day          int           `json:"day"`
	InMonth      bool          `json:"inMonth"`
	IsToday      bool          `json:"isToday"`
	Appointments []Appointment `json:"appointments"`
}

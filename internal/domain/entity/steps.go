package entity

// StepEntry is one day of step data from the source provider, optionally
// enriched with a calories total before it is pushed to the destination.
type StepEntry struct {
	CalendarDate string `json:"calendarDate"` // ISO date, e.g. "2024-03-01"
	TotalSteps   int    `json:"totalSteps"`
	Calories     *int   `json:"calories,omitempty"` // nil when no calories were found
}

// StepsReading is a single intraday sample from the per-day step endpoint.
type StepsReading struct {
	Steps int `json:"steps"`
}

// DailyStats is the subset of the daily summary used for the calories lookup.
type DailyStats struct {
	TotalKilocalories float64 `json:"totalKilocalories"`
}

// ActivityOptions overrides the fixed defaults of a logged activity entry.
// Zero values fall back to a 00:01 start and a one hour duration.
type ActivityOptions struct {
	StartTime      string
	DurationMillis int64
}

package schedule

// ShiftPolicy is an employee's expected working window as wall-clock "HH:mm"
// strings. Either bound may be absent.
type ShiftPolicy struct {
	StartTime *string
	EndTime   *string
}

// Lateness is the check-in classification against a shift start.
type Lateness struct {
	IsLate      bool
	LateMinutes int
}

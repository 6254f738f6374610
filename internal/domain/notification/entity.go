package notification

import (
	"time"
)

// EventType is the kind of attendance transition being announced.
type EventType string

const (
	EventCheckIn    EventType = "check_in"
	EventCheckOut   EventType = "check_out"
	EventBreakStart EventType = "break_start"
	EventBreakEnd   EventType = "break_end"
)

// EmployeeRef identifies the employee an event is about.
type EmployeeRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
}

// Event is broadcast on the dashboard channel after a successful transition.
type Event struct {
	ID        string                 `json:"id"`
	CompanyID string                 `json:"companyId"`
	Type      EventType              `json:"type"`
	Employee  EmployeeRef            `json:"employee"`
	Time      time.Time              `json:"time"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// DashboardTopic is the hub topic that carries a company's dashboard events.
func DashboardTopic(companyID string) string {
	return "dashboard:" + companyID
}

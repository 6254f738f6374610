package dashboard

import "time"

// OverviewCounts are today's headline numbers.
type OverviewCounts struct {
	TotalEmployees int `json:"totalEmployees"`
	PresentToday   int `json:"presentToday"`
	CheckedIn      int `json:"checkedIn"`
	CheckedOut     int `json:"checkedOut"`
	OnBreak        int `json:"onBreak"`
	Late           int `json:"late"`
	Absent         int `json:"absent"`
}

type DepartmentStat struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Late       int    `json:"late"`
}

type EmployeeSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	EmployeeID string  `json:"employeeId"`
	Department *string `json:"department,omitempty"`
}

type ActivityItem struct {
	Employee EmployeeSummary `json:"employee"`
	State    string          `json:"state"`
	CheckIn  time.Time       `json:"checkIn"`
	CheckOut *time.Time      `json:"checkOut,omitempty"`
	IsLate   bool            `json:"isLate"`
}

type OnBreakItem struct {
	Employee       EmployeeSummary `json:"employee"`
	BreakType      string          `json:"breakType"`
	BreakStart     time.Time       `json:"breakStart"`
	MinutesOnBreak int             `json:"minutesOnBreak"`
}

// OverviewResponse is the dashboard overview payload.
type OverviewResponse struct {
	Date             string           `json:"date"`
	Overview         OverviewCounts   `json:"overview"`
	DepartmentStats  []DepartmentStat `json:"departmentStats"`
	RecentActivity   []ActivityItem   `json:"recentActivity"`
	OnBreakEmployees []OnBreakItem    `json:"onBreakEmployees"`
}

// Anomalies counts entries skipped while aggregating.
type Anomalies struct {
	UnresolvedEmployees int
	MissingDepartment   int
}

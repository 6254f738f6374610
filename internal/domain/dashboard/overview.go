package dashboard

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
)

// RecentActivityLimit caps the recent activity list.
const RecentActivityLimit = 10

// BuildDailyOverview aggregates today's entries. Headline counts use every
// entry; per-employee views skip entries whose employee is not in dir and
// report them in Anomalies.
func BuildDailyOverview(entries []attendance.Entry, dir employee.Directory, totalEmployees int, now time.Time) (OverviewResponse, Anomalies) {
	var (
		counts    = OverviewCounts{TotalEmployees: totalEmployees}
		anomalies Anomalies
		byDept    = map[string]*DepartmentStat{}
		recent    []ActivityItem
		onBreak   = []OnBreakItem{}
	)

	for _, emp := range dir {
		if emp.Department == nil || *emp.Department == "" {
			continue
		}
		stat(byDept, *emp.Department).Total++
	}

	for _, e := range entries {
		state := attendance.DeriveState(&e)
		switch state {
		case attendance.StateCheckedIn, attendance.StateOnBreak:
			counts.CheckedIn++
		case attendance.StateCheckedOut:
			counts.CheckedOut++
		}
		// A day may be checked out with a break still open.
		activeIdx, hasActiveBreak := attendance.ActiveBreak(e)
		if hasActiveBreak {
			counts.OnBreak++
		}
		if e.IsLate {
			counts.Late++
		}

		emp, ok := dir[e.EmployeeID]
		if !ok {
			anomalies.UnresolvedEmployees++
			continue
		}
		summary := EmployeeSummary{
			ID:         emp.ID,
			Name:       emp.FullName,
			EmployeeID: emp.EmployeeCode,
			Department: emp.Department,
		}

		if e.CheckIn != nil {
			var checkOut *time.Time
			if e.CheckOut != nil {
				checkOut = &e.CheckOut.Time
			}
			recent = append(recent, ActivityItem{
				Employee: summary,
				State:    string(state),
				CheckIn:  e.CheckIn.Time,
				CheckOut: checkOut,
				IsLate:   e.IsLate,
			})
		}

		if hasActiveBreak {
			b := e.Breaks[activeIdx]
			onBreak = append(onBreak, OnBreakItem{
				Employee:       summary,
				BreakType:      string(b.BreakType),
				BreakStart:     b.StartTime,
				MinutesOnBreak: max(0, int(now.Sub(b.StartTime).Minutes())),
			})
		}

		if emp.Department == nil || *emp.Department == "" {
			anomalies.MissingDepartment++
			continue
		}
		ds := stat(byDept, *emp.Department)
		if e.CheckIn != nil {
			ds.Present++
		}
		if e.IsLate {
			ds.Late++
		}
	}

	counts.PresentToday = counts.CheckedIn + counts.CheckedOut
	counts.Absent = max(0, totalEmployees-counts.PresentToday)

	return OverviewResponse{
		Overview:         counts,
		DepartmentStats:  sortedStats(byDept),
		RecentActivity:   RecentActivity(recent, RecentActivityLimit),
		OnBreakEmployees: onBreak,
	}, anomalies
}

// RecentActivity orders items by check-in time, newest first, and keeps at most limit.
func RecentActivity(items []ActivityItem, limit int) []ActivityItem {
	sorted := make([]ActivityItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CheckIn.After(sorted[j].CheckIn)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func stat(m map[string]*DepartmentStat, dept string) *DepartmentStat {
	s, ok := m[dept]
	if !ok {
		s = &DepartmentStat{Department: dept}
		m[dept] = s
	}
	return s
}

func sortedStats(m map[string]*DepartmentStat) []DepartmentStat {
	out := make([]DepartmentStat, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

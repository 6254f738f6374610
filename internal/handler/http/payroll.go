package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// GetAttendanceSummary handles GET /payroll/attendance-summary
	GetAttendanceSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GetAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("period_month")
	yearStr := r.URL.Query().Get("period_year")

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		response.BadRequest(w, "invalid period_month parameter", nil)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		response.BadRequest(w, "invalid period_year parameter", nil)
		return
	}

	req := payroll.AttendanceSummaryRequest{
		PeriodMonth: month,
		PeriodYear:  year,
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	result, err := h.payrollService.GetAttendanceSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Latest(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

func (h *PayrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.payrollService.CreatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll record created successfully", res)
}

// Upsert answers 201 when the period had no record yet and 200 when one was merged.
func (h *PayrollHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertPayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.payrollService.UpsertPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if res.Created {
		response.Created(w, "Payroll record created successfully", res)
		return
	}
	response.SuccessWithMessage(w, "Payroll record updated successfully", res)
}

func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll generated successfully", res)
}

func (h *PayrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	res, err := h.payrollService.UpdatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll record updated successfully", res)
}

// Get returns one record. Employees may only read their own.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	res, err := h.payrollService.GetPayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if err := ownsEmployeeRecord(p, res.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *PayrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayroll(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll record deleted successfully", nil)
}

func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "page", "limit", "month", "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.PayrollFilter{
		PeriodMonth: ints["month"],
		PeriodYear:  ints["year"],
		Status:      queryString(r, "status"),
		EmployeeID:  queryString(r, "employee_id"),
		Page:        intOr(ints["page"], 1),
		Limit:       intOr(ints["limit"], 20),
		SortBy:      r.URL.Query().Get("sort_by"),
		SortOrder:   r.URL.Query().Get("sort_order"),
	}

	res, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, res.Data, &response.Meta{
		Page:       res.Page,
		Limit:      res.Limit,
		TotalItems: res.TotalCount,
		TotalPages: int(math.Ceil(float64(res.TotalCount) / float64(res.Limit))),
	})
}

func (h *PayrollHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "month", "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.payrollService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"), ints["month"], ints["year"])
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *PayrollHandlerImpl) Latest(w http.ResponseWriter, r *http.Request) {
	res, err := h.payrollService.GetLatestByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// GetEmployee implements EmployeeHandler. Employees may only read their own profile.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := ownsEmployeeRecord(p, id); err != nil {
		response.HandleError(w, err)
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, emp)
}

func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", emp)
}

func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	emp, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", emp)
}

func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// ListEmployees implements EmployeeHandler.
// Query: search, department_id, employment_status, page, limit
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "page", "limit")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := employee.EmployeeFilter{
		Search:           queryString(r, "search"),
		DepartmentID:     queryString(r, "department_id"),
		EmploymentStatus: queryString(r, "employment_status"),
		Page:             intOr(ints["page"], 1),
		Limit:            intOr(ints["limit"], 20),
	}

	res, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type DepartmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{departmentService: departmentService}
}

func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.departmentService.CreateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Department created successfully", res)
}

func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.departmentService.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.departmentService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *departmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req department.UpdateDepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	res, err := h.departmentService.UpdateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department updated successfully", res)
}

func (h *departmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.departmentService.DeleteDepartment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}

package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn records the caller's arrival for today.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if p.EmployeeID != nil {
		req.EmployeeID = *p.EmployeeID
	}

	res, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Checked in successfully", res)
}

// CheckOut closes the caller's record for today.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.CheckOutRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if p.EmployeeID != nil {
		req.EmployeeID = *p.EmployeeID
	}

	res, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out successfully", res)
}

func (h *AttendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.attendanceService.CreateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance created successfully", res)
}

func (h *AttendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	res, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated successfully", res)
}

// Get returns one record. Employees may only read their own.
func (h *AttendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	res, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
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

func (h *AttendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteAttendance(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := attendanceFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *AttendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	filter, err := attendanceFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.attendanceService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *AttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.attendanceService.GetSummary(r.Context(), chi.URLParam(r, "employeeId"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *AttendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.attendanceService.GetMonthly(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func attendanceFilterFromQuery(r *http.Request) (attendance.AttendanceFilter, error) {
	ints, err := queryInts(r, "page", "limit")
	if err != nil {
		return attendance.AttendanceFilter{}, err
	}

	filter := attendance.AttendanceFilter{
		EmployeeID: queryString(r, "employee_id"),
		Date:       queryString(r, "date"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Status:     queryString(r, "status"),
		Page:       intOr(ints["page"], 1),
		Limit:      intOr(ints["limit"], 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
	if raw := r.URL.Query().Get("is_leave"); raw != "" {
		isLeave, err := strconv.ParseBool(raw)
		if err != nil {
			return attendance.AttendanceFilter{}, validatorError("is_leave", "is_leave must be true or false")
		}
		filter.IsLeave = &isLeave
	}
	return filter, nil
}

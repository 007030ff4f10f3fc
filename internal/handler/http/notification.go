package http

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ForEmployee(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notificationService notification.NotificationService
}

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &notificationHandlerImpl{notificationService: notificationService}
}

func (h *notificationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req notification.CreateNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.notificationService.CreateNotification(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Notification created successfully", res)
}

// Get serves admins any notification and employees only the ones addressed to them.
func (h *notificationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	var (
		res notification.NotificationResponse
		err error
	)
	switch {
	case p.IsAdmin():
		res, err = h.notificationService.GetNotification(r.Context(), id)
	case p.EmployeeID != nil:
		res, err = h.notificationService.GetForEmployee(r.Context(), id, *p.EmployeeID)
	default:
		err = notification.ErrNotificationNotFound
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "page", "limit")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := notification.NotificationFilter{
		Status:       queryString(r, "status"),
		Urgency:      queryString(r, "urgency"),
		DepartmentID: queryString(r, "department_id"),
		Page:         intOr(ints["page"], 1),
		Limit:        intOr(ints["limit"], 20),
	}

	res, err := h.notificationService.ListNotifications(r.Context(), filter)
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

func (h *notificationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req notification.UpdateNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	res, err := h.notificationService.UpdateNotification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification updated successfully", res)
}

func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.DeleteNotification(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification deleted successfully", nil)
}

// ForEmployee lists the caller's own feed. Mounted behind RequireEmployee.
func (h *notificationHandlerImpl) ForEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	res, err := h.notificationService.ListForEmployee(r.Context(), *p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

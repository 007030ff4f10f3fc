package http

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type ActivityLogHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type activityLogHandlerImpl struct {
	activityLogService activitylog.ActivityLogService
}

func NewActivityLogHandler(activityLogService activitylog.ActivityLogService) ActivityLogHandler {
	return &activityLogHandlerImpl{activityLogService: activityLogService}
}

func (h *activityLogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req activitylog.CreateActivityLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.activityLogService.CreateActivityLog(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Activity log created successfully", res)
}

func (h *activityLogHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.activityLogService.GetActivityLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *activityLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "page", "limit")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := activitylog.ActivityLogFilter{
		UserID: queryString(r, "user_id"),
		Page:   intOr(ints["page"], 1),
		Limit:  intOr(ints["limit"], 20),
	}

	res, err := h.activityLogService.ListActivityLogs(r.Context(), filter)
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

func (h *activityLogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req activitylog.UpdateActivityLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	res, err := h.activityLogService.UpdateActivityLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Activity log updated successfully", res)
}

func (h *activityLogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.activityLogService.DeleteActivityLog(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Activity log deleted successfully", nil)
}

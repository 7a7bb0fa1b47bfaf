package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/domain/auth"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetMyEvents(w http.ResponseWriter, r *http.Request)
	GetEvent(w http.ResponseWriter, r *http.Request)
	UpdateEvent(w http.ResponseWriter, r *http.Request)
	DeleteEvent(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	eventService attendance.EventService
}

func NewAttendanceHandler(eventService attendance.EventService) AttendanceHandler {
	return &attendanceHandlerImpl{eventService: eventService}
}

func listFilterFromQuery(r *http.Request) attendance.ListFilter {
	var filter attendance.ListFilter

	q := r.URL.Query()
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if kind := q.Get("kind"); kind != "" {
		filter.Kind = &kind
	}
	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	filter.SortOrder = q.Get("sort_order")

	return filter
}

// GetMyEvents implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := listFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.eventService.GetMyEvents(r.Context(), userID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEvent implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEvent(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.eventService.GetEvent(r.Context(), chi.URLParam(r, "id"), callerID, isAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateEvent implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req attendance.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.eventService.UpdateEvent(r.Context(), req, callerID, isAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", result)
}

// DeleteEvent implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), chi.URLParam(r, "id"), callerID, isAdmin); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// ListEvents implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.eventService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

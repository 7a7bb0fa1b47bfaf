package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/auth"
	"github.com/kintaihub/kintai-backend-go/internal/domain/report"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetMyStatistics(w http.ResponseWriter, r *http.Request)
	GetUserStatistics(w http.ResponseWriter, r *http.Request)
	GetOverallStatistics(w http.ResponseWriter, r *http.Request)
	GetRanking(w http.ResponseWriter, r *http.Request)
	DistributeRevenue(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// GetMyStatistics implements ReportHandler.
func (h *reportHandlerImpl) GetMyStatistics(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.reportService.GetUserStatistics(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetUserStatistics implements ReportHandler.
func (h *reportHandlerImpl) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetUserStatistics(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetOverallStatistics implements ReportHandler.
func (h *reportHandlerImpl) GetOverallStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetOverallStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRanking implements ReportHandler.
func (h *reportHandlerImpl) GetRanking(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetRanking(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DistributeRevenue implements ReportHandler.
func (h *reportHandlerImpl) DistributeRevenue(w http.ResponseWriter, r *http.Request) {
	var req report.DistributeRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.DistributeRevenue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

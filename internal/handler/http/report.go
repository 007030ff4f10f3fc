package http

import (
	"fmt"
	"net/http"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/report"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// GET /reports/departments?month=&year=
	DepartmentRollup(w http.ResponseWriter, r *http.Request)

	// GET /reports/departments/export?month=&year=
	ExportDepartmentRollup(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) DepartmentRollup(w http.ResponseWriter, r *http.Request) {
	req, err := rollupRequestFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.reportService.DepartmentRollup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

func (h *reportHandlerImpl) ExportDepartmentRollup(w http.ResponseWriter, r *http.Request) {
	req, err := rollupRequestFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	body, err := h.reportService.ExportDepartmentRollup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("department-rollup-%04d-%02d.xlsx", req.Year, req.Month)
	response.File(w, xlsxContentType, filename, body)
}

func rollupRequestFromQuery(r *http.Request) (report.DepartmentRollupRequest, error) {
	ints, err := queryInts(r, "month", "year")
	if err != nil {
		return report.DepartmentRollupRequest{}, err
	}
	return report.DepartmentRollupRequest{
		Month: intOr(ints["month"], 0),
		Year:  intOr(ints["year"], 0),
	}, nil
}

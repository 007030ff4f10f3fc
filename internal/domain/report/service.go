package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// DepartmentRollup totals one month of attendance per department
	DepartmentRollup(ctx context.Context, req DepartmentRollupRequest) (DepartmentRollupReport, error)

	// ExportDepartmentRollup renders DepartmentRollup as an xlsx workbook
	ExportDepartmentRollup(ctx context.Context, req DepartmentRollupRequest) ([]byte, error)
}

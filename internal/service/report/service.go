package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const rollupSheet = "Department Rollup"

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	departmentRepo department.DepartmentRepository
	policy         attendance.Policy
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	departmentRepo department.DepartmentRepository,
	policy attendance.Policy,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		departmentRepo: departmentRepo,
		policy:         policy,
	}
}

// DepartmentRollup implements report.ReportService.
func (s *ReportServiceImpl) DepartmentRollup(ctx context.Context, req report.DepartmentRollupRequest) (report.DepartmentRollupReport, error) {
	if err := req.Validate(); err != nil {
		return report.DepartmentRollupReport{}, err
	}

	var (
		departments []department.Department
		records     []attendance.Attendance
	)
	from, to := attendance.Period{Month: req.Month, Year: req.Year}.Range()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		departments, err = s.departmentRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByRange(gctx, "", from, to)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.DepartmentRollupReport{}, err
	}

	totals := Rollup(records, s.policy)

	summaries := make([]report.DepartmentSummary, 0, len(departments)+1)
	for _, dept := range departments {
		summary, ok := totals[dept.ID]
		if !ok {
			summary = report.DepartmentSummary{DepartmentID: dept.ID}
		}
		summary.DepartmentName = dept.Name
		summaries = append(summaries, summary)
		delete(totals, dept.ID)
	}

	// Whatever is left is the unassigned bucket, or a department deleted mid-month.
	leftovers := make([]report.DepartmentSummary, 0, len(totals))
	for id, summary := range totals {
		summary.DepartmentName = id
		if id == report.UnassignedDepartment {
			summary.DepartmentName = "Unassigned"
		}
		leftovers = append(leftovers, summary)
	}
	sort.Slice(leftovers, func(i, j int) bool {
		if leftovers[i].DepartmentID == report.UnassignedDepartment {
			return false
		}
		if leftovers[j].DepartmentID == report.UnassignedDepartment {
			return true
		}
		return leftovers[i].DepartmentID < leftovers[j].DepartmentID
	})

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].DepartmentName < summaries[j].DepartmentName
	})

	return report.DepartmentRollupReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Departments: append(summaries, leftovers...),
	}, nil
}

// ExportDepartmentRollup implements report.ReportService.
func (s *ReportServiceImpl) ExportDepartmentRollup(ctx context.Context, req report.DepartmentRollupRequest) ([]byte, error) {
	rollup, err := s.DepartmentRollup(ctx, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rollupSheet); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	title := fmt.Sprintf("Department attendance %04d-%02d", rollup.PeriodYear, rollup.PeriodMonth)
	if err := f.SetCellValue(rollupSheet, "A1", title); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	header := []interface{}{"Department", "Employees", "Days Present", "Days Absent", "Days On Leave", "Overtime Hours"}
	if err := f.SetSheetRow(rollupSheet, "A3", &header); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	if err := f.SetCellStyle(rollupSheet, "A3", "F3", headerStyle); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	for i, d := range rollup.Departments {
		row := []interface{}{d.DepartmentName, d.EmployeeCount, d.DaysPresent, d.DaysAbsent, d.DaysOnLeave, d.OvertimeHours}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
		if err := f.SetSheetRow(rollupSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
	}

	if err := f.SetColWidth(rollupSheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	if err := f.SetColWidth(rollupSheet, "B", "F", 16); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return buf.Bytes(), nil
}

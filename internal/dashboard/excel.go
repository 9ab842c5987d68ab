package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
)

const registerSheet = "Job Register"

var registerColumns = []string{
	"Job Number", "Equipment", "Serial Number", "Current Step", "Status",
	"Hazmat", "Quote Amount", "PO Number", "Received", "Target Completion",
}

// ExportJobRegister renders the current job register as an Excel workbook.
func (s *Service) ExportJobRegister(ctx context.Context, filters jobs.JobFilters) ([]byte, error) {
	if filters.Limit == 0 {
		filters.Limit = 1000
	}
	jobList, err := s.jobsRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()
	file.SetSheetName("Sheet1", registerSheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(registerSheet, cell, col)
		file.SetCellStyle(registerSheet, cell, cell, headerStyle)
	}

	for rowIdx, job := range jobList {
		row := rowIdx + 2

		hazmat := "no"
		if job.HasHazmat {
			hazmat = "yes"
			if job.HazmatCleaned {
				hazmat = "cleaned"
			}
		}

		values := []interface{}{
			job.JobNumber,
			job.EquipmentType,
			job.SerialNumber,
			job.CurrentStep.String(),
			string(job.Status),
			hazmat,
			floatOrEmpty(job.QuoteAmount),
			strOrEmpty(job.PONumber),
			job.ReceivedAt.Format("2006-01-02"),
			dateOrEmpty(job.TargetCompletionDate),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			file.SetCellValue(registerSheet, cell, val)
		}
	}

	// Freeze the header row and make the register filterable
	file.SetPanes(registerSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
	lastCell, _ := excelize.CoordinatesToCellName(len(registerColumns), len(jobList)+1)
	file.AutoFilter(registerSheet, "A1:"+lastCell, nil)
	file.SetColWidth(registerSheet, "A", "J", 18)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write job register workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/parts"
)

const (
	pdfFontFamily = "Arial"
	pdfFontSize   = 10.0
	pdfTitleSize  = 16.0
	pdfMarginL    = 15.0
	pdfMarginR    = 15.0
	pdfMarginT    = 20.0
	pdfMarginB    = 20.0
)

var pdfHeaderColor = [3]int{68, 114, 196}

// renderReportPDF renders a technical report with the job header, the
// narrative sections and the assessed parts table.
func renderReportPDF(job *jobs.Job, report *TechnicalReport, jobParts []parts.Part) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginL, pdfMarginT, pdfMarginR)
	pdf.SetAutoPageBreak(true, pdfMarginB)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFontFamily, "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Title block
	pdf.SetFont(pdfFontFamily, "B", pdfTitleSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Technical Assessment Report", "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", pdfFontSize+2)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, job.JobNumber, "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", pdfFontSize-1)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")), "", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Equipment summary
	pdf.SetTextColor(0, 0, 0)
	addKeyValue(pdf, "Equipment", job.EquipmentType)
	addKeyValue(pdf, "Manufacturer", deref(job.Manufacturer))
	addKeyValue(pdf, "Model", deref(job.Model))
	addKeyValue(pdf, "Serial Number", job.SerialNumber)
	if job.HasHazmat && job.HazmatLevel != nil {
		addKeyValue(pdf, "Hazmat Level", string(*job.HazmatLevel))
	}
	if job.QuoteAmount != nil {
		addKeyValue(pdf, "Quoted Amount", fmt.Sprintf("%.2f", *job.QuoteAmount))
	}
	pdf.Ln(4)

	addNarrative(pdf, "Executive Summary", report.ExecutiveSummary)
	addNarrative(pdf, "Findings", report.Findings)
	addNarrative(pdf, "Recommendations", report.Recommendations)

	if len(jobParts) > 0 {
		addPartsTable(pdf, jobParts)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addKeyValue(pdf *gofpdf.Fpdf, key, value string) {
	if value == "" {
		return
	}
	pdf.SetFont(pdfFontFamily, "B", pdfFontSize)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func addNarrative(pdf *gofpdf.Fpdf, title string, body *string) {
	if body == nil || *body == "" {
		return
	}
	pdf.SetFont(pdfFontFamily, "B", pdfFontSize+2)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	pdf.MultiCell(0, 5.5, *body, "", "L", false)
	pdf.Ln(4)
}

func addPartsTable(pdf *gofpdf.Fpdf, jobParts []parts.Part) {
	pdf.SetFont(pdfFontFamily, "B", pdfFontSize+2)
	pdf.CellFormat(0, 8, "Assessed Parts", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	widths := []float64{55, 25, 35, 65}
	headers := []string{"Part", "Condition", "Est. Cost", "Defects"}

	pdf.SetFont(pdfFontFamily, "B", pdfFontSize+1)
	pdf.SetFillColor(pdfHeaderColor[0], pdfHeaderColor[1], pdfHeaderColor[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	for i, part := range jobParts {
		if i%2 == 1 {
			pdf.SetFillColor(242, 242, 242)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		cost := ""
		if part.Cost != nil {
			cost = fmt.Sprintf("%.2f", *part.Cost)
		}
		defects := ""
		for j, d := range part.Defects {
			if j > 0 {
				defects += ", "
			}
			defects += d
		}

		cells := []string{part.PartName, string(part.Condition), cost, defects}
		for j, val := range cells {
			maxChars := int(widths[j] / 2)
			if len(val) > maxChars && maxChars > 3 {
				val = val[:maxChars-3] + "..."
			}
			pdf.CellFormat(widths[j], 7, val, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

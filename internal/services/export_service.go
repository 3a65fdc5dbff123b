package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"github.com/ywpark/brickpay-api/internal/models"
)

// ExportService renders payment plans and adjustment summaries to the
// formats the back office consumes
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// AdjustmentCSV renders an adjustment summary as CSV
func (s *ExportService) AdjustmentCSV(contract *models.Contract, summary *AdjustmentSummary) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Payment Adjustment Summary", contract.Serial, summary.AsOf.Format("2006-01-02")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Installment", "Due Date", "Due", "Paid", "Discount", "Penalty", "Unpaid"})

	for _, line := range summary.Lines {
		dueDate := ""
		if line.DueDate != nil {
			dueDate = line.DueDate.Format("2006-01-02")
		}
		_ = writer.Write([]string{
			line.PayName,
			dueDate,
			fmt.Sprintf("%d", line.DueAmount),
			fmt.Sprintf("%d", line.PaidAmount),
			fmt.Sprintf("%d", line.Discount),
			fmt.Sprintf("%d", line.Penalty),
			fmt.Sprintf("%d", line.Unpaid),
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Total",
		"",
		fmt.Sprintf("%d", summary.TotalDue),
		fmt.Sprintf("%d", summary.TotalPaid),
		fmt.Sprintf("%d", summary.TotalDiscount),
		fmt.Sprintf("%d", summary.TotalPenalty),
		fmt.Sprintf("%d", summary.TotalUnpaid),
	})
	_ = writer.Write([]string{"Not Yet Due", "", fmt.Sprintf("%d", summary.NotYetDueAmount)})

	writer.Flush()

	filename := fmt.Sprintf("adjustment_%s_%s.csv", contract.Serial, summary.AsOf.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// AdjustmentXLSX renders an adjustment summary as an Excel workbook
func (s *ExportService) AdjustmentXLSX(contract *models.Contract, summary *AdjustmentSummary) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Adjustment"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Payment Adjustment Summary - %s", contract.Serial))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("As of %s", summary.AsOf.Format("2006-01-02")))

	headers := []string{"Installment", "Due Date", "Due", "Paid", "Discount", "Penalty", "Unpaid"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 5
	for _, line := range summary.Lines {
		dueDate := ""
		if line.DueDate != nil {
			dueDate = line.DueDate.Format("2006-01-02")
		}
		values := []interface{}{line.PayName, dueDate, line.DueAmount, line.PaidAmount, line.Discount, line.Penalty, line.Unpaid}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), summary.TotalDue)
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), summary.TotalPaid)
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), summary.TotalDiscount)
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), summary.TotalPenalty)
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), summary.TotalUnpaid)
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Not Yet Due")
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), summary.NotYetDueAmount)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("adjustment_%s_%s.xlsx", contract.Serial, summary.AsOf.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// PlanPDF renders a payment plan as a simple tabular PDF
func (s *ExportService) PlanPDF(contract *models.Contract, plan []PlanLine) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Plan")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, fmt.Sprintf("Contract: %s", contract.Serial))
	pdf.Ln(6)
	pdf.Cell(60, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(70, 8, "Installment")
	pdf.Cell(40, 8, "Due Date")
	pdf.Cell(50, 8, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	var total int64
	for _, line := range plan {
		dueDate := "-"
		if line.Order.PayDueDate != nil {
			dueDate = line.Order.PayDueDate.Format("2006-01-02")
		}
		pdf.Cell(70, 7, line.Order.PayName)
		pdf.Cell(40, 7, dueDate)
		pdf.Cell(50, 7, fmt.Sprintf("%d", line.Amount))
		pdf.Ln(7)
		total += line.Amount
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(110, 8, "Total")
	pdf.Cell(50, 8, fmt.Sprintf("%d", total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render pdf: %w", err)
	}

	filename := fmt.Sprintf("plan_%s.pdf", contract.Serial)
	return buf.Bytes(), filename, nil
}

// statementData feeds the HTML statement template
type statementData struct {
	Serial      string
	Contractor  string
	ProjectName string
	GeneratedAt string
	Lines       []AdjustmentLine
	Summary     *AdjustmentSummary
}

// StatementPDF renders the contract statement through the HTML template and
// wkhtmltopdf. Needs the wkhtmltopdf binary on the host.
func (s *ExportService) StatementPDF(contract *models.Contract, summary *AdjustmentSummary) ([]byte, string, error) {
	tmplPath := "internal/services/templates/statement.html"
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = "templates/statement.html"
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse statement template: %w", err)
	}

	data := statementData{
		Serial:      contract.Serial,
		Contractor:  contract.Contractor,
		ProjectName: contract.Project.Name,
		GeneratedAt: time.Now().Format("2006-01-02"),
		Lines:       summary.Lines,
		Summary:     summary,
	}

	var html bytes.Buffer
	if err := tmpl.Execute(&html, data); err != nil {
		return nil, "", fmt.Errorf("failed to execute statement template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create pdf generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, "", fmt.Errorf("failed to create pdf: %w", err)
	}

	filename := fmt.Sprintf("statement_%s.pdf", contract.Serial)
	return pdfg.Buffer().Bytes(), filename, nil
}

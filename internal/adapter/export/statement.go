// Package export renders khata statements as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/iho/khata/internal/domain"
)

// BuildStatementPDF renders a khata statement as a PDF. Entries are
// expected oldest-first; soft-deleted entries are marked, not hidden.
func BuildStatementPDF(khata *domain.Khata, entries []*domain.Entry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Khata Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Person: %s", khata.PersonName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Type: %s", khata.Type))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", khata.Status))
	pdf.Ln(5)
	if khata.Phone != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Phone: %s", khata.Phone))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Total Credit: %s", khata.TotalCredit.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Debit: %s", khata.TotalDebit.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Current Balance: %s", khata.CurrentBalance.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(28, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.CellFormat(84, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, entry := range entries {
		description := entry.Description
		if entry.IsDeleted {
			description = "[deleted] " + description
		}
		pdf.CellFormat(28, 6, entry.TransactionDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, string(entry.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, entry.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, entry.BalanceAfter.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(84, 6, description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementXLSX renders a khata statement as an XLSX workbook with
// a summary sheet and an entries sheet.
func BuildStatementXLSX(khata *domain.Khata, entries []*domain.Entry) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	entriesSheet := "entries"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(entriesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Khata Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Person")
	_ = f.SetCellValue(summarySheet, "B3", khata.PersonName)
	_ = f.SetCellValue(summarySheet, "A4", "Type")
	_ = f.SetCellValue(summarySheet, "B4", string(khata.Type))
	_ = f.SetCellValue(summarySheet, "A5", "Status")
	_ = f.SetCellValue(summarySheet, "B5", string(khata.Status))
	_ = f.SetCellValue(summarySheet, "A6", "Phone")
	_ = f.SetCellValue(summarySheet, "B6", khata.Phone)
	_ = f.SetCellValue(summarySheet, "A7", "Total Credit")
	_ = f.SetCellValue(summarySheet, "B7", khata.TotalCredit.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A8", "Total Debit")
	_ = f.SetCellValue(summarySheet, "B8", khata.TotalDebit.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A9", "Current Balance")
	_ = f.SetCellValue(summarySheet, "B9", khata.CurrentBalance.InexactFloat64())

	_ = f.SetCellValue(entriesSheet, "A1", "Date")
	_ = f.SetCellValue(entriesSheet, "B1", "Type")
	_ = f.SetCellValue(entriesSheet, "C1", "Amount")
	_ = f.SetCellValue(entriesSheet, "D1", "Balance After")
	_ = f.SetCellValue(entriesSheet, "E1", "Description")
	_ = f.SetCellValue(entriesSheet, "F1", "Deleted")
	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("A%d", row), entry.TransactionDate.Format("2006-01-02"))
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("B%d", row), string(entry.Type))
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("C%d", row), entry.Amount.InexactFloat64())
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("D%d", row), entry.BalanceAfter.InexactFloat64())
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("E%d", row), entry.Description)
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("F%d", row), entry.IsDeleted)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

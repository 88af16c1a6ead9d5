package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportService builds the month-end and daily operational reports
type ReportService struct {
	invoiceSvc    *InvoiceService
	collectionSvc *CollectionService
}

// NewReportService creates a new report service
func NewReportService(invoiceSvc *InvoiceService, collectionSvc *CollectionService) *ReportService {
	return &ReportService{
		invoiceSvc:    invoiceSvc,
		collectionSvc: collectionSvc,
	}
}

var monthlySummaryHeader = []string{
	"Book No", "Grower", "Route",
	"Grade 1 kg", "Grade 2 kg", "Total kg", "Deduction kg", "Payable kg",
	"Total Amount", "Total Deductions", "Net Amount", "Status",
}

// MonthlySummaryCSV exports one row per invoice for a month, with a totals
// footer matching the period stats.
func (s *ReportService) MonthlySummaryCSV(ctx context.Context, year, month int) ([]byte, string, error) {
	invoices, err := s.invoiceSvc.ListByPeriod(ctx, year, month)
	if err != nil {
		return nil, "", err
	}
	stats, err := s.invoiceSvc.PeriodStats(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{fmt.Sprintf("Monthly Invoice Summary %d-%02d", year, month)})
	_ = writer.Write([]string{""})
	_ = writer.Write(monthlySummaryHeader)

	for _, inv := range invoices {
		route := ""
		if inv.Route != nil {
			route = *inv.Route
		}
		_ = writer.Write([]string{
			inv.BookNumber,
			inv.GrowerNameEnglish,
			route,
			inv.Grade1Kg.StringFixed(2),
			inv.Grade2Kg.StringFixed(2),
			inv.TotalKg.StringFixed(2),
			inv.SupplyDeductionKg.StringFixed(2),
			inv.PayableKg.StringFixed(2),
			inv.TotalAmount.StringFixed(2),
			inv.TotalDeductions.StringFixed(2),
			inv.NetAmount.StringFixed(2),
			inv.Status,
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{
		"Totals", fmt.Sprintf("%d invoices", stats.Count), "",
		"", "", stats.TotalKg.StringFixed(2), "", stats.PayableKg.StringFixed(2),
		stats.TotalAmount.StringFixed(2), stats.TotalDeductions.StringFixed(2), stats.NetAmount.StringFixed(2), "",
	})
	writer.Flush()

	filename := fmt.Sprintf("invoice_summary_%d-%02d.csv", year, month)
	return buf.Bytes(), filename, nil
}

// MonthlySummaryXLSX exports the same summary as a spreadsheet.
func (s *ReportService) MonthlySummaryXLSX(ctx context.Context, year, month int) ([]byte, string, error) {
	invoices, err := s.invoiceSvc.ListByPeriod(ctx, year, month)
	if err != nil {
		return nil, "", err
	}
	stats, err := s.invoiceSvc.PeriodStats(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoices"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Monthly Invoice Summary %d-%02d", year, month))

	for col, h := range monthlySummaryHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 4
	for _, inv := range invoices {
		route := ""
		if inv.Route != nil {
			route = *inv.Route
		}
		values := []interface{}{
			inv.BookNumber,
			inv.GrowerNameEnglish,
			route,
			inv.Grade1Kg.InexactFloat64(),
			inv.Grade2Kg.InexactFloat64(),
			inv.TotalKg.InexactFloat64(),
			inv.SupplyDeductionKg.InexactFloat64(),
			inv.PayableKg.InexactFloat64(),
			inv.TotalAmount.InexactFloat64(),
			inv.TotalDeductions.InexactFloat64(),
			inv.NetAmount.InexactFloat64(),
			inv.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Totals")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stats.Count)
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), stats.TotalKg.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), stats.PayableKg.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), stats.TotalAmount.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), stats.TotalDeductions.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("K%d", row), stats.NetAmount.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("invoice_summary_%d-%02d.xlsx", year, month)
	return buf.Bytes(), filename, nil
}

// DailyCollectionCSV exports the collection sheet for one date, ordered by
// book number then grade.
func (s *ReportService) DailyCollectionCSV(ctx context.Context, date time.Time) ([]byte, string, error) {
	collections, err := s.collectionSvc.ListByDate(ctx, date)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{fmt.Sprintf("Daily Collection Sheet %s", date.Format("2006-01-02"))})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Book No", "Grade", "Weight kg", "Rate", "Amount", "Notes"})

	for _, c := range collections {
		rate, amount := "", ""
		if c.RatePerKg.Valid {
			rate = c.RatePerKg.Decimal.StringFixed(2)
		}
		if c.TotalAmount.Valid {
			amount = c.TotalAmount.Decimal.StringFixed(2)
		}
		notes := ""
		if c.Notes != nil {
			notes = *c.Notes
		}
		_ = writer.Write([]string{c.BookNumber, c.Grade, c.WeightKg.StringFixed(2), rate, amount, notes})
	}
	writer.Flush()

	filename := fmt.Sprintf("collections_%s.csv", date.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// CustomerInvoiceHistoryCSV exports one grower's invoices across periods,
// newest first.
func (s *ReportService) CustomerInvoiceHistoryCSV(ctx context.Context, customerID uint) ([]byte, string, error) {
	invoices, err := s.invoiceSvc.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"Period", "Invoice No", "Total kg", "Payable kg", "Total Amount", "Total Deductions", "Net Amount", "Status"})
	for _, inv := range invoices {
		_ = writer.Write([]string{
			inv.PeriodLabel(),
			inv.InvoiceNumber,
			inv.TotalKg.StringFixed(2),
			inv.PayableKg.StringFixed(2),
			inv.TotalAmount.StringFixed(2),
			inv.TotalDeductions.StringFixed(2),
			inv.NetAmount.StringFixed(2),
			inv.Status,
		})
	}
	writer.Flush()

	filename := fmt.Sprintf("invoice_history_customer_%d.csv", customerID)
	return buf.Bytes(), filename, nil
}

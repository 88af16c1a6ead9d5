package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/storage"
)

// InvoicePDFService renders invoices as PDF statements. When an invoice
// template image has been uploaded the fields are positioned over it, matching
// the dealer's pre-printed stationery; otherwise a plain tabular layout is
// drawn.
type InvoicePDFService struct {
	invoiceSvc  *InvoiceService
	settingsSvc *SettingsService
	storage     *storage.LocalStorage
}

// NewInvoicePDFService creates a new invoice PDF service
func NewInvoicePDFService(
	invoiceSvc *InvoiceService,
	settingsSvc *SettingsService,
	storage *storage.LocalStorage,
) *InvoicePDFService {
	return &InvoicePDFService{
		invoiceSvc:  invoiceSvc,
		settingsSvc: settingsSvc,
		storage:     storage,
	}
}

// Render builds the PDF for one invoice and stores it under
// invoices/{period}/{number}.pdf, replacing any previous version.
func (s *InvoicePDFService) Render(ctx context.Context, invoiceID uint) ([]byte, string, error) {
	invoice, err := s.invoiceSvc.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}

	templatePath, err := s.settingsSvc.Get(ctx, models.SettingInvoiceTemplate)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if templatePath != "" && s.storage.Exists(templatePath) {
		s.drawOnTemplate(pdf, invoice, s.storage.GetFullPath(templatePath))
	} else {
		s.drawPlain(pdf, invoice)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	relPath := filepath.Join("invoices", invoice.PeriodLabel(), invoice.InvoiceNumber+".pdf")
	if err := s.storage.SaveBytes(relPath, buf.Bytes()); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), relPath, nil
}

// drawOnTemplate overlays the invoice figures on the uploaded stationery
// image. Positions follow the dealer's standard monthly statement form.
func (s *InvoicePDFService) drawOnTemplate(pdf *gofpdf.Fpdf, inv *models.Invoice, imagePath string) {
	pdf.ImageOptions(imagePath, 0, 0, 210, 297, false,
		gofpdf.ImageOptions{ImageType: "", ReadDpi: true}, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	put := func(x, y float64, text string) {
		pdf.Text(x, y, text)
	}

	put(150, 32, inv.InvoiceNumber)
	put(150, 39, inv.PeriodLabel())
	put(40, 52, inv.BookNumber)
	put(40, 59, inv.GrowerNameEnglish)
	if inv.Route != nil {
		put(40, 66, *inv.Route)
	}

	put(95, 92, inv.Grade1Kg.StringFixed(2))
	put(130, 92, inv.Grade1PayableKg.StringFixed(2))
	put(155, 92, inv.Grade1Rate.StringFixed(2))
	put(180, 92, inv.Grade1Amount.StringFixed(2))

	put(95, 100, inv.Grade2Kg.StringFixed(2))
	put(130, 100, inv.Grade2PayableKg.StringFixed(2))
	put(155, 100, inv.Grade2Rate.StringFixed(2))
	put(180, 100, inv.Grade2Amount.StringFixed(2))

	put(95, 110, inv.TotalKg.StringFixed(2))
	put(115, 118, inv.SupplyDeductionKg.StringFixed(2))
	put(115, 126, inv.PayableKg.StringFixed(2))
	put(180, 110, inv.TotalAmount.StringFixed(2))

	put(180, 140, nullAmount(inv.ArrearsAmount))
	put(180, 147, nullAmount(inv.AdvanceAmount))
	put(180, 154, nullAmount(inv.LoanAmount))
	put(180, 161, nullAmount(inv.Fertilizer1Amount))
	put(180, 168, nullAmount(inv.Fertilizer2Amount))
	if inv.TeaPacketsCount != nil {
		put(150, 175, fmt.Sprintf("%d", *inv.TeaPacketsCount))
	}
	put(180, 175, nullAmount(inv.TeaPacketsTotal))
	put(180, 182, nullAmount(inv.AgrochemicalsAmount))
	put(180, 189, inv.TransportAmount.StringFixed(2))
	put(180, 196, nullAmount(inv.OtherDeductions))
	put(180, 203, inv.StampFee.StringFixed(2))
	put(180, 212, inv.TotalDeductions.StringFixed(2))

	pdf.SetFont("Helvetica", "B", 12)
	put(180, 228, inv.NetAmount.StringFixed(2))
}

// drawPlain renders a self-contained statement for use without stationery.
func (s *InvoicePDFService) drawPlain(pdf *gofpdf.Fpdf, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Monthly Leaf Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice %s  |  Period %s", inv.InvoiceNumber, inv.PeriodLabel()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Book No: %s", inv.BookNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Grower: %s", inv.GrowerNameEnglish), "", 1, "L", false, 0, "")
	if inv.Route != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Route: %s", *inv.Route), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []struct {
		w float64
		t string
	}{{50, "Grade"}, {35, "Collected kg"}, {35, "Payable kg"}, {30, "Rate"}, {40, "Amount"}} {
		pdf.CellFormat(h.w, 7, h.t, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	row := func(grade string, kg, payable, rate, amount decimal.Decimal) {
		pdf.CellFormat(50, 7, grade, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, kg.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, payable.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	row("Grade 1", inv.Grade1Kg, inv.Grade1PayableKg, inv.Grade1Rate, inv.Grade1Amount)
	row("Grade 2", inv.Grade2Kg, inv.Grade2PayableKg, inv.Grade2Rate, inv.Grade2Amount)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, inv.TotalKg.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, inv.PayableKg.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, inv.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Supply deduction: %s kg (%s%%)",
		inv.SupplyDeductionKg.StringFixed(2), inv.SupplyDeductionPercentage.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Deductions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	dline := func(label, value string) {
		pdf.CellFormat(150, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, value, "", 1, "R", false, 0, "")
	}
	dline("Arrears", nullAmount(inv.ArrearsAmount))
	dline("Advance", nullAmount(inv.AdvanceAmount))
	dline("Loan", nullAmount(inv.LoanAmount))
	dline("Fertilizer 1", nullAmount(inv.Fertilizer1Amount))
	dline("Fertilizer 2", nullAmount(inv.Fertilizer2Amount))
	teaPackets := nullAmount(inv.TeaPacketsTotal)
	if inv.TeaPacketsCount != nil && teaPackets != "" {
		teaPackets = fmt.Sprintf("%d x %s", *inv.TeaPacketsCount, teaPackets)
	}
	dline("Tea packets", teaPackets)
	dline("Agrochemicals", nullAmount(inv.AgrochemicalsAmount))
	dline("Transport", inv.TransportAmount.StringFixed(2))
	dline("Other", nullAmount(inv.OtherDeductions))
	dline("Stamp fee", inv.StampFee.StringFixed(2))
	pdf.SetFont("Helvetica", "B", 10)
	dline("Total deductions", inv.TotalDeductions.StringFixed(2))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	dline("Net payable", inv.NetAmount.StringFixed(2))
}

// nullAmount prints a never-entered charge as blank, an explicit zero as 0.00.
func nullAmount(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return ""
	}
	return nd.Decimal.StringFixed(2)
}

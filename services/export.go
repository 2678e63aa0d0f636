// services/export.go
package services

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/zahabshop/zahab_backend/models"
)

const exportTimeLayout = "02/01/2006 15:04"

// RenderInvoicePDF produces a printable invoice: header, customer block, one
// table row per sold item, totals, and a QR code of the invoice id for
// counter-side lookups.
func RenderInvoicePDF(invoice models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+invoice.ID.Hex(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Zahab Jewelry - Invoice", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Invoice: "+invoice.ID.Hex(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+invoice.CreatedAt.Format(exportTimeLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Branch: "+invoice.BranchID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Customer: "+invoice.CustomerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Phone: "+invoice.CustomerPhone, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Item table.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Weight (g)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range invoice.Items {
		pdf.CellFormat(70, 8, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.Weight), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", line.Price), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, "Gold price", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", invoice.GoldPrice), "", 1, "R", false, 0, "")
	pdf.CellFormat(130, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", invoice.TotalPrice), "", 1, "R", false, 0, "")

	if qrPNG, err := invoiceQRCode(invoice.ID.Hex()); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("invoice-qr", opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("invoice-qr", 12, pdf.GetY()+6, 30, 30, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// invoiceQRCode encodes the invoice id as a 120x120 PNG.
func invoiceQRCode(invoiceID string) ([]byte, error) {
	code, err := qr.Encode("zahab://invoice/"+invoiceID, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, 120, 120)
	if err != nil {
		return nil, err
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, code); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// RenderInvoiceXLSX produces a spreadsheet with one row per sold item plus a
// totals block, for the back office's accounting export.
func RenderInvoiceXLSX(invoice models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	meta := [][]interface{}{
		{"Invoice", invoice.ID.Hex()},
		{"Date", invoice.CreatedAt.Format(exportTimeLayout)},
		{"Branch", invoice.BranchID},
		{"Customer", invoice.CustomerName},
		{"Phone", invoice.CustomerPhone},
	}
	for i, row := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	headerRow := []interface{}{"Item", "Quantity", "Weight (g)", "Price"}
	headerStart := len(meta) + 2
	cell, err := excelize.CoordinatesToCellName(1, headerStart)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &headerRow); err != nil {
		return nil, err
	}

	for i, line := range invoice.Items {
		row := []interface{}{line.Name, line.Quantity, line.Weight, line.Price}
		cell, err := excelize.CoordinatesToCellName(1, headerStart+1+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	totalsStart := headerStart + len(invoice.Items) + 2
	totals := [][]interface{}{
		{"Gold price", invoice.GoldPrice},
		{"Total price", invoice.TotalPrice},
		{"Total profits", invoice.TotalProfits},
	}
	for i, row := range totals {
		cell, err := excelize.CoordinatesToCellName(1, totalsStart+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename builds the attachment filename for an invoice export.
func ExportFilename(invoice models.Invoice, ext string) string {
	return fmt.Sprintf("invoice-%s-%s.%s", invoice.ID.Hex(), invoice.CreatedAt.Format("2006-01-02"), ext)
}

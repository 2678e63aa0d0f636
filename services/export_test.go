package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zahabshop/zahab_backend/models"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		ID:            primitive.NewObjectID(),
		BranchID:      "b1",
		UserID:        "uid-1",
		CustomerName:  "Layla Haddad",
		CustomerPhone: "+96170123456",
		Items: []models.InvoiceItem{
			{Name: "Gold ring 21k", Quantity: 1, Weight: 4.2, Price: 310.50},
			{Name: "Bracelet 18k", Quantity: 2, Weight: 11.8, Price: 845.00},
		},
		TotalPrice:   1155.50,
		TotalProfits: 96.30,
		GoldPrice:    74.25,
		CreatedAt:    time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	payload, err := RenderInvoicePDF(sampleInvoice())
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "output should start with the PDF magic")
	assert.Contains(t, string(payload[len(payload)-32:]), "%%EOF")
}

func TestRenderInvoicePDFNoItems(t *testing.T) {
	invoice := sampleInvoice()
	invoice.Items = nil

	payload, err := RenderInvoicePDF(invoice)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestRenderInvoiceXLSX(t *testing.T) {
	invoice := sampleInvoice()
	payload, err := RenderInvoiceXLSX(invoice)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Invoice", get("A1"))
	assert.Equal(t, invoice.ID.Hex(), get("B1"))
	assert.Equal(t, "14/03/2026 10:30", get("B2"))
	assert.Equal(t, "Layla Haddad", get("B4"))

	// Item header sits two rows below the meta block, items right after.
	assert.Equal(t, "Item", get("A7"))
	assert.Equal(t, "Gold ring 21k", get("A8"))
	assert.Equal(t, "2", get("B9"))

	// Totals block.
	assert.Equal(t, "Gold price", get("A11"))
	assert.Equal(t, "Total price", get("A12"))
	assert.Equal(t, "1155.5", get("B12"))
	assert.Equal(t, "Total profits", get("A13"))
}

func TestInvoiceQRCode(t *testing.T) {
	payload, err := invoiceQRCode("abc123")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("\x89PNG")))
}

func TestExportFilename(t *testing.T) {
	invoice := sampleInvoice()
	name := ExportFilename(invoice, "pdf")
	assert.Equal(t, "invoice-"+invoice.ID.Hex()+"-2026-03-14.pdf", name)
}

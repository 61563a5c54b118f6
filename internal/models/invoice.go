package models

import (
	"fmt"
	"strings"
	"time"

	"invoiceflow/internal/textutil"
)

// InvoiceDate is a calendar date that unmarshals from the YYYY-MM-DD strings
// the extraction model is instructed to emit.
type InvoiceDate struct {
	time.Time
}

const invoiceDateLayout = "2006-01-02"

func (d *InvoiceDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("invoice date is empty")
	}
	t, err := time.Parse(invoiceDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid invoice date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d InvoiceDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(invoiceDateLayout) + `"`), nil
}

// ExtractedInvoice holds the structured fields extracted from one invoice.
// Immutable once produced, except Vendor, which an operator override may
// replace before filename synthesis.
type ExtractedInvoice struct {
	Vendor       string      `json:"vendor"`
	InvoiceDate  InvoiceDate `json:"invoice_date"`
	ItemCount    int         `json:"item_count"`
	ItemCategory string      `json:"item_category"`
	TotalAmount  float64     `json:"total_amount"`
	TotalVAT     float64     `json:"total_vat"`
}

// RawVendorExtract holds the vendor name exactly as it appears in the
// source document.
type RawVendorExtract struct {
	VerbatimVendorName string `json:"verbatim_vendor_name"`
}

// Filename formats the extracted details into the deterministic output name:
// vendor-YYYYMMDD-count-category-amount-vat.pdf. Vendor and category pass
// through Sanitize so their casing is preserved.
func (inv *ExtractedInvoice) Filename() string {
	return fmt.Sprintf("%s-%s-%d-%s-%.2f-%.2f.pdf",
		textutil.Sanitize(inv.Vendor),
		inv.InvoiceDate.Format("20060102"),
		inv.ItemCount,
		textutil.Sanitize(inv.ItemCategory),
		inv.TotalAmount,
		inv.TotalVAT,
	)
}

// Package invoice assembles matched invoice rows into typed record tables,
// persists them and exports them.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRecord is one purchased line entry, stamped with the header values of
// the document it came from. A zero InvoiceDate means the document declared
// no parseable date.
type ItemRecord struct {
	ItemNumber    string
	Position      int
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	ProductCode   string
	DiscountPct   decimal.Decimal
	TaxPct        decimal.Decimal
	NetValue      decimal.Decimal
	Description   string
	InvoiceNumber string
	InvoiceDate   time.Time
}

// TotalsRecord is one invoice's summary line.
type TotalsRecord struct {
	Shipping      decimal.Decimal
	NetValue      decimal.Decimal
	TaxPct        decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	InvoiceNumber string
	InvoiceDate   time.Time
}

// ItemColumns are the documented item table column names in binding order.
var ItemColumns = []string{
	"Nº Artículo",
	"Posición",
	"Cantidad",
	"Precio Unitario (EUR)",
	"Código Producto",
	"Descuento %",
	"IVA %",
	"Valor Neto (EUR)",
	"Descripción",
	"Nº Factura",
	"Fecha Factura",
}

// TotalsColumns are the documented totals table column names in binding order.
var TotalsColumns = []string{
	"Portes (EUR)",
	"Valor Neto (EUR)",
	"IVA %",
	"Importe IVA (EUR)",
	"Importe Total (EUR)",
	"Nº Factura",
	"Fecha Factura",
}

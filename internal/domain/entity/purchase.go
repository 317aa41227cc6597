package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra a proveedor (cabecera). TotalAmount es derivado.
type Purchase struct {
	ID           string
	SupplierName string
	Reference    string // número de factura del proveedor, opcional
	TotalAmount  decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
}

// PurchaseItem representa una línea de compra. A diferencia de la venta,
// UnitPrice lo aporta el caller: una compra puede reabastecer a un costo
// negociado distinto del precio de lista vigente.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

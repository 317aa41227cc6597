package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta completa (cabecera). TotalAmount es derivado:
// la suma de los subtotales de sus items.
type Sale struct {
	ID            string
	CustomerName  string // opcional
	TotalAmount   decimal.Decimal
	PaymentMethod string
	CreatedBy     string
	CreatedAt     time.Time
}

// SaleItem representa una línea de venta. UnitPrice es el precio de lista del
// producto en el momento de la venta; Subtotal = Quantity × UnitPrice.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

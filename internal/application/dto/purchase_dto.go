package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest una línea de compra. UnitPrice lo aporta el caller:
// el costo negociado con el proveedor puede diferir del precio de lista.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Reference    string                `json:"reference,omitempty"`
	Items        []PurchaseItemRequest `json:"items"`
}

// PurchaseItemResponse línea de compra persistida.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con sus items y total final.
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	SupplierName string                 `json:"supplier_name"`
	Reference    string                 `json:"reference,omitempty"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	Items        []PurchaseItemResponse `json:"items"`
}

// PurchaseListResponse listado paginado de compras (cabeceras, sin items).
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

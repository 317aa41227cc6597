package dto

import "time"

// RegisterMovementRequest body para POST /api/products/stock-movements.
// QuantityChange con signo: positivo entrada, negativo salida.
type RegisterMovementRequest struct {
	ProductID      string `json:"product_id"`
	QuantityChange int64  `json:"quantity_change"`
	MovementType   string `json:"movement_type"`
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	QuantityChange int64     `json:"quantity_change"`
	MovementType   string    `json:"movement_type"`
	Reference      string    `json:"reference,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	MovementDate   time.Time `json:"movement_date"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es un valor derivado: debe ser igual a la suma de los quantity_change
// de todos sus movimientos desde la creación. Solo el motor de inventario lo modifica,
// siempre junto con el movimiento que lo justifica y en la misma transacción.
type Product struct {
	ID          string
	Name        string // único
	Description string
	Price       decimal.Decimal // precio de venta (> 0)
	Quantity    int64           // cantidad disponible (>= 0, derivada del ledger)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeInitial    = "initial"    // inventario inicial al crear el producto
	MovementTypeAdjustment = "adjustment" // ajuste manual de cantidad
	MovementTypeSale       = "sale"       // salida por venta
	MovementTypePurchase   = "purchase"   // entrada por compra
)

// ValidMovementType indica si el tipo es uno de los cuatro conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeInitial, MovementTypeAdjustment, MovementTypeSale, MovementTypePurchase:
		return true
	}
	return false
}

// StockMovement representa un hecho inmutable del ledger de inventario:
// un cambio con signo en la cantidad de un producto. Nunca se actualiza ni se
// elimina de forma individual (solo cae en cascada si se elimina el producto).
type StockMovement struct {
	ID             string
	ProductID      string
	QuantityChange int64  // positivo para entradas, negativo para salidas; nunca cero
	MovementType   string // initial, adjustment, sale, purchase
	Reference      string // "Venta #<id>", "Compra #<id>", número de documento, etc.
	Notes          string
	CreatedBy      string // UserID; puede ser vacío
	MovementDate   time.Time
}

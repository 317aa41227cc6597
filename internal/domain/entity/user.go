package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// User representa un usuario del sistema.
// IsActive arranca en false: la cuenta se activa al verificar el email.
type User struct {
	ID           string
	Username     string // único
	Email        string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, cajero
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

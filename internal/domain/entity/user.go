package entity

import "time"

// User representa un usuario de la API. La autenticación es plomería de
// borde: el núcleo de inventario solo consume su ID como actor (performed_by).
type User struct {
	ID             string
	OrganizationID string
	Email          string
	PasswordHash   string
	FullName       string
	Role           string // "admin" | "bodeguero" | "tecnico"
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package entity

import "time"

// Estados de los registros de referencia (soft-delete).
const (
	ReferenceStatusActive   = "active"
	ReferenceStatusInactive = "inactive"
)

// Supplier representa un proveedor (dato de referencia, solo CRUD + soft-delete).
type Supplier struct {
	ID             string
	OrganizationID string
	Code           string // código único por organización
	Name           string
	ContactName    string
	Email          string
	Phone          string
	Address        string
	Status         string // active, inactive
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Location representa una ubicación física de stock (bodega, camión, obra).
type Location struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	Address        string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Category representa una categoría de ítems (jerárquica opcional).
type Category struct {
	ID             string
	OrganizationID string
	ParentID       string // vacío si es raíz
	Code           string
	Name           string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UnitOfMeasure representa una unidad de medida (unidad, metro, caja...).
type UnitOfMeasure struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

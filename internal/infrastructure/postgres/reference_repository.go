package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// Adaptadores de los registros de referencia. CRUD plano; la unicidad del
// código por organización la garantizan constraints en BD.

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, organization_id, code, name, contact_name,
			email, phone, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.Code, s.Name, s.ContactName,
		s.Email, s.Phone, s.Address, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", mapInsertErr(err))
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, organization_id, code, name, contact_name, email, phone,
		       address, status, created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrganizationID, &s.Code, &s.Name, &s.ContactName,
		&s.Email, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact_name = $3, email = $4,
			phone = $5, address = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE suppliers SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set supplier status: %w", err)
	}
	return nil
}

func (r *SupplierRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, organization_id, code, name, contact_name, email, phone,
		       address, status, created_at, updated_at
		FROM suppliers
		WHERE organization_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		err := rows.Scan(
			&s.ID, &s.OrganizationID, &s.Code, &s.Name, &s.ContactName,
			&s.Email, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, organization_id, code, name, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.OrganizationID, l.Code, l.Name, l.Address, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert location: %w", mapInsertErr(err))
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `
		SELECT id, organization_id, code, name, address, status, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.OrganizationID, &l.Code, &l.Name, &l.Address, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `UPDATE locations SET name = $2, address = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Address, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *LocationRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE locations SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set location status: %w", err)
	}
	return nil
}

func (r *LocationRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, organization_id, code, name, address, status, created_at, updated_at
		FROM locations
		WHERE organization_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		err := rows.Scan(&l.ID, &l.OrganizationID, &l.Code, &l.Name, &l.Address, &l.Status, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, organization_id, parent_id, code, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.OrganizationID, c.ParentID, c.Code, c.Name, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", mapInsertErr(err))
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `
		SELECT id, organization_id, parent_id, code, name, status, created_at, updated_at
		FROM categories WHERE id = $1`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OrganizationID, &c.ParentID, &c.Code, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `UPDATE categories SET parent_id = $2, name = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.ParentID, c.Name, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE categories SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set category status: %w", err)
	}
	return nil
}

func (r *CategoryRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Category, error) {
	query := `
		SELECT id, organization_id, parent_id, code, name, status, created_at, updated_at
		FROM categories
		WHERE organization_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*entity.Category
	for rows.Next() {
		var c entity.Category
		err := rows.Scan(&c.ID, &c.OrganizationID, &c.ParentID, &c.Code, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// UnitRepo implementación de UnitRepository sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.UnitOfMeasure) error {
	query := `
		INSERT INTO units_of_measure (id, organization_id, code, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, u.ID, u.OrganizationID, u.Code, u.Name, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert unit: %w", mapInsertErr(err))
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	query := `
		SELECT id, organization_id, code, name, status, created_at, updated_at
		FROM units_of_measure WHERE id = $1`
	var u entity.UnitOfMeasure
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.OrganizationID, &u.Code, &u.Name, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func (r *UnitRepo) Update(ctx context.Context, u *entity.UnitOfMeasure) error {
	query := `UPDATE units_of_measure SET name = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE units_of_measure SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set unit status: %w", err)
	}
	return nil
}

func (r *UnitRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.UnitOfMeasure, error) {
	query := `
		SELECT id, organization_id, code, name, status, created_at, updated_at
		FROM units_of_measure
		WHERE organization_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []*entity.UnitOfMeasure
	for rows.Next() {
		var u entity.UnitOfMeasure
		err := rows.Scan(&u.ID, &u.OrganizationID, &u.Code, &u.Name, &u.Status, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentora/internal/domain"
	"rentora/internal/repository"
)

// owner_id and tenant_id are weak references to users; nothing cascades.
const createPropertiesTable = `
CREATE TABLE IF NOT EXISTS properties (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	country TEXT NOT NULL,
	rent INTEGER NOT NULL,
	images TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	tenant_id TEXT NULL,
	status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'rented', 'maintenance')),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPropertiesTable); err != nil {
		return fmt.Errorf("create properties table: %w", err)
	}
	return nil
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO properties (id, title, description, address, city, state, country, rent, images, owner_id, tenant_id, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		property.ID,
		property.Title,
		property.Description,
		property.Address,
		property.City,
		property.State,
		property.Country,
		property.Rent,
		joinImages(property.Images),
		property.OwnerID,
		nullableID(property.TenantID),
		string(property.Status),
		property.CreatedAt,
		property.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	property.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE properties
SET title = ?, description = ?, address = ?, city = ?, state = ?, country = ?, rent = ?, images = ?, tenant_id = ?, status = ?, updated_at = ?
WHERE id = ?`,
		property.Title,
		property.Description,
		property.Address,
		property.City,
		property.State,
		property.Country,
		property.Rent,
		joinImages(property.Images),
		nullableID(property.TenantID),
		string(property.Status),
		property.UpdatedAt,
		property.ID,
	)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("property rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Get(ctx context.Context, id string) (*domain.Property, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, address, city, state, country, rent, images, owner_id, tenant_id, status, created_at, updated_at
FROM properties
WHERE id = ?`,
		id,
	)
	return scanProperty(row)
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, address, city, state, country, rent, images, owner_id, tenant_id, status, created_at, updated_at
FROM properties
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}

func (r *PropertyRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM properties WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
}

func (r *PropertyRepository) ListIDsByTenant(ctx context.Context, tenantID string) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM properties WHERE tenant_id = ? ORDER BY created_at ASC`, tenantID)
}

func (r *PropertyRepository) listIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list property ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property ids: %w", err)
	}
	return ids, nil
}

func scanProperty(row interface {
	Scan(dest ...any) error
}) (*domain.Property, error) {
	var (
		property domain.Property
		images   string
		tenantID sql.NullString
		status   string
	)
	if err := row.Scan(
		&property.ID,
		&property.Title,
		&property.Description,
		&property.Address,
		&property.City,
		&property.State,
		&property.Country,
		&property.Rent,
		&images,
		&property.OwnerID,
		&tenantID,
		&status,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}
	property.Images = splitImages(images)
	property.TenantID = tenantID.String
	property.Status = domain.PropertyStatus(status)
	return &property, nil
}

func joinImages(images []string) string {
	return strings.Join(images, "\n")
}

func splitImages(images string) []string {
	if images == "" {
		return nil
	}
	return strings.Split(images, "\n")
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

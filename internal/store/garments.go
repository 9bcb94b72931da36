package store

import (
	"context"
	"database/sql"
	"fmt"

	"printcraft-service/internal/models"
)

// GarmentReader is the read half of the catalog. The customization engines
// depend only on this, never on the storage mechanism behind it.
type GarmentReader interface {
	GetGarment(ctx context.Context, id int64) (*models.Garment, error)
	ListGarments(ctx context.Context) ([]models.Garment, error)
}

// GarmentRepository is the full injectable catalog interface used by the
// admin surface.
type GarmentRepository interface {
	GarmentReader
	AddGarment(ctx context.Context, g *models.Garment) error
	UpdateGarment(ctx context.Context, g *models.Garment) error
	DeleteGarment(ctx context.Context, id int64) error
}

// ListGarments retrieves the full garment catalog
func (s *Store) ListGarments(ctx context.Context) ([]models.Garment, error) {
	var garments []models.Garment
	err := s.db.SelectContext(ctx, &garments, "SELECT * FROM garments ORDER BY id")
	return garments, err
}

// GetGarment retrieves a garment by ID
func (s *Store) GetGarment(ctx context.Context, id int64) (*models.Garment, error) {
	var g models.Garment
	err := s.db.GetContext(ctx, &g, "SELECT * FROM garments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("garment not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// AddGarment inserts a new garment into the catalog
func (s *Store) AddGarment(ctx context.Context, g *models.Garment) error {
	query := `
		INSERT INTO garments (name, base_price, images, colors, sizes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		g.Name, g.BasePrice, g.Images, g.Colors, g.Sizes).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// UpdateGarment replaces a garment's catalog record
func (s *Store) UpdateGarment(ctx context.Context, g *models.Garment) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE garments
		SET name = $1, base_price = $2, images = $3, colors = $4, sizes = $5, updated_at = NOW()
		WHERE id = $6`,
		g.Name, g.BasePrice, g.Images, g.Colors, g.Sizes, g.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("garment not found: %d", g.ID)
	}
	return nil
}

// DeleteGarment removes a garment from the catalog
func (s *Store) DeleteGarment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM garments WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("garment not found: %d", id)
	}
	return nil
}

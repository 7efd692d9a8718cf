package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Insert relies on the UNIQUE(email) constraint to reject duplicates.
func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, email, source, metadata, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)
	`

	metadata := string(lead.Metadata)
	if metadata == "" {
		metadata = "{}"
	}

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Email,
		lead.Source,
		metadata,
		lead.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrLeadAlreadyExists
		}
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

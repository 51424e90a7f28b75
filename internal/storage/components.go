package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/service"
)

const componentColumns = `id, category, brand, model, variant_name, release_date,
	ean, datasheet_url, product_page_url, warranty_years, status,
	specs, compatibility, completeness, needs_review, review_status, review_notes,
	created_at, updated_at`

// SaveComponent inserts or replaces a component row. Specs and compatibility
// are stored as JSON documents so the schema registry stays the single
// authority on which keys exist.
func (s *SQLiteStorage) SaveComponent(ctx context.Context, component *model.Component) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateComponent(component); err != nil {
		return err
	}

	specsJSON, err := json.Marshal(component.Specs)
	if err != nil {
		return fmt.Errorf("failed to marshal specs: %w", err)
	}
	compatJSON, err := json.Marshal(component.Compatibility)
	if err != nil {
		return fmt.Errorf("failed to marshal compatibility: %w", err)
	}

	query := `
		INSERT INTO components (
			id, category, brand, model, variant_name, release_date,
			ean, datasheet_url, product_page_url, warranty_years, status,
			specs, compatibility, completeness, needs_review, review_status, review_notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			brand = excluded.brand,
			model = excluded.model,
			variant_name = excluded.variant_name,
			release_date = excluded.release_date,
			ean = excluded.ean,
			datasheet_url = excluded.datasheet_url,
			product_page_url = excluded.product_page_url,
			warranty_years = excluded.warranty_years,
			status = excluded.status,
			specs = excluded.specs,
			compatibility = excluded.compatibility,
			completeness = excluded.completeness,
			needs_review = excluded.needs_review,
			review_status = excluded.review_status,
			review_notes = excluded.review_notes,
			updated_at = CURRENT_TIMESTAMP`

	_, err = s.db.ExecContext(ctx, query,
		component.ID, component.Category, component.Brand, component.Model,
		component.Variant, nullableString(component.ReleaseDate),
		nullableString(component.EAN), nullableString(component.DatasheetURL),
		nullableString(component.ProductPageURL), component.WarrantyYears,
		string(component.Status), string(specsJSON), string(compatJSON),
		component.Quality.Completeness, component.Quality.NeedsReview,
		string(component.Quality.ReviewStatus), nullableString(component.Quality.ReviewNotes),
	)
	if err != nil {
		return fmt.Errorf("failed to save component: %w", err)
	}

	slog.Debug("saved component", "id", component.ID, "category", component.Category)
	return nil
}

// GetComponentByID retrieves a component and its offers.
func (s *SQLiteStorage) GetComponentByID(ctx context.Context, id string) (*model.Component, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + componentColumns + ` FROM components WHERE id = ?`

	component, err := scanComponent(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: component %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	offers, err := s.GetOffers(ctx, id)
	if err != nil {
		return nil, err
	}
	component.Offers = offers

	return component, nil
}

// GetComponents retrieves components matching the filter, ordered by
// category then brand and model.
func (s *SQLiteStorage) GetComponents(ctx context.Context, filter service.ComponentFilter) ([]model.Component, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.NeedsReview {
		conditions = append(conditions, "needs_review = 1")
	}
	if filter.Search != "" {
		conditions = append(conditions, "(brand LIKE ? OR model LIKE ? OR variant_name LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + componentColumns + ` FROM components`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY category, brand, model"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var components []model.Component
	for rows.Next() {
		component, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		components = append(components, *component)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}

	slog.Debug("retrieved components", "count", len(components))
	return components, nil
}

// GetComponentsByCategory returns all components in a category.
func (s *SQLiteStorage) GetComponentsByCategory(ctx context.Context, category string) ([]model.Component, error) {
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}
	return s.GetComponents(ctx, service.ComponentFilter{Category: category})
}

// DeleteComponent removes a component; offers and external ids cascade.
func (s *SQLiteStorage) DeleteComponent(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM components WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: component %s", ErrNotFound, id)
	}

	slog.Info("deleted component", "id", id)
	return nil
}

// UpdateReviewStatus moves a component through the review workflow. Approval
// clears the needs_review flag.
func (s *SQLiteStorage) UpdateReviewStatus(ctx context.Context, id string, status model.ReviewStatus, notes string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	switch status {
	case model.ReviewUnreviewed, model.ReviewApproved, model.ReviewRejected:
	default:
		return fmt.Errorf("%w: invalid review status %q", ErrInvalidComponent, status)
	}

	needsReview := status != model.ReviewApproved

	result, err := s.db.ExecContext(ctx, `
		UPDATE components
		SET review_status = ?, review_notes = ?, needs_review = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(status), nullableString(notes), needsReview, id)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: component %s", ErrNotFound, id)
	}

	slog.Info("updated review status", "id", id, "status", status)
	return nil
}

// SaveOffers replaces all offers for a component.
func (s *SQLiteStorage) SaveOffers(ctx context.Context, componentID string, offers []model.Offer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(componentID, "componentID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM offers WHERE component_id = ?`, componentID); err != nil {
		return fmt.Errorf("failed to clear offers: %w", err)
	}

	for _, offer := range offers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO offers (
				id, component_id, vendor_id, source_id, vendor_url,
				price_inr, shipping_inr, effective_price_inr, quantity, in_stock
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			offer.ID, componentID, offer.VendorID, offer.SourceID,
			nullableString(offer.VendorURL), offer.PriceINR, offer.ShippingINR,
			offer.EffectiveINR, offer.Quantity, offer.InStock)
		if err != nil {
			return fmt.Errorf("failed to insert offer %s: %w", offer.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit offers: %w", err)
	}

	slog.Debug("saved offers", "component_id", componentID, "count", len(offers))
	return nil
}

// GetOffers returns all offers for a component, cheapest effective price first.
func (s *SQLiteStorage) GetOffers(ctx context.Context, componentID string) ([]model.Offer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(componentID, "componentID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vendor_id, source_id, vendor_url, price_inr, shipping_inr,
			effective_price_inr, quantity, in_stock, updated_at
		FROM offers
		WHERE component_id = ?
		ORDER BY effective_price_inr`, componentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var offers []model.Offer
	for rows.Next() {
		var offer model.Offer
		var vendorURL sql.NullString
		if err := rows.Scan(
			&offer.ID, &offer.VendorID, &offer.SourceID, &vendorURL,
			&offer.PriceINR, &offer.ShippingINR, &offer.EffectiveINR,
			&offer.Quantity, &offer.InStock, &offer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offer.VendorURL = vendorURL.String
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanComponent(row scanner) (*model.Component, error) {
	var component model.Component
	var releaseDate, ean, datasheetURL, productPageURL, reviewNotes sql.NullString
	var specsJSON, compatJSON string

	err := row.Scan(
		&component.ID, &component.Category, &component.Brand, &component.Model,
		&component.Variant, &releaseDate, &ean, &datasheetURL, &productPageURL,
		&component.WarrantyYears, &component.Status,
		&specsJSON, &compatJSON,
		&component.Quality.Completeness, &component.Quality.NeedsReview,
		&component.Quality.ReviewStatus, &reviewNotes,
		&component.CreatedAt, &component.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan component: %w", err)
	}

	component.ReleaseDate = releaseDate.String
	component.EAN = ean.String
	component.DatasheetURL = datasheetURL.String
	component.ProductPageURL = productPageURL.String
	component.Quality.ReviewNotes = reviewNotes.String

	if err := json.Unmarshal([]byte(specsJSON), &component.Specs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal specs: %w", err)
	}
	if err := json.Unmarshal([]byte(compatJSON), &component.Compatibility); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compatibility: %w", err)
	}

	return &component, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

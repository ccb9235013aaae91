package database

import (
	"context"
	"errors"
	"fmt"

	"tender-rag/internal/models"

	"github.com/jackc/pgx/v5"
)

// GetTender loads a tender with its sections in section order.
func (db *DB) GetTender(ctx context.Context, tenderID string) (*models.Tender, error) {
	var tender models.Tender
	err := db.Pool.QueryRow(ctx, `
		SELECT tender_id, title, description, status
		FROM tender
		WHERE tender_id = $1
	`, tenderID).Scan(&tender.ID, &tender.Title, &tender.Description, &tender.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrTenderNotFound, tenderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tender: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT section_id, title, body, position
		FROM tender_section
		WHERE tender_id = $1
		ORDER BY position
	`, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tender sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var section models.Section
		if err := rows.Scan(&section.ID, &section.Title, &section.Body, &section.Position); err != nil {
			return nil, fmt.Errorf("failed to scan section row: %w", err)
		}
		tender.Sections = append(tender.Sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}

	return &tender, nil
}

// CreateTender stores a tender and its sections in one transaction. Used
// by the PDF import path.
func (db *DB) CreateTender(ctx context.Context, tender *models.Tender) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO tender (tender_id, title, description, status)
        VALUES ($1, $2, $3, $4)
    `, tender.ID, tender.Title, tender.Description, tender.Status)
	if err != nil {
		return fmt.Errorf("failed to insert tender: %w", err)
	}

	for _, section := range tender.Sections {
		_, err = tx.Exec(ctx, `
            INSERT INTO tender_section (section_id, tender_id, title, body, position)
            VALUES ($1, $2, $3, $4, $5)
        `, section.ID, tender.ID, section.Title, section.Body, section.Position)
		if err != nil {
			return fmt.Errorf("failed to insert section: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tender: %w", err)
	}

	return nil
}

// UpdateTenderStatus changes a tender's lifecycle status.
func (db *DB) UpdateTenderStatus(ctx context.Context, tenderID, status string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE tender SET status = $2 WHERE tender_id = $1
	`, tenderID, status)
	if err != nil {
		return fmt.Errorf("failed to update tender status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", models.ErrTenderNotFound, tenderID)
	}
	return nil
}

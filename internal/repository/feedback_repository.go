package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/feedback-ratings/internal/repository/models"
)

// ErrNotFound is returned when no rated entity matches the requested id.
var ErrNotFound = errors.New("entity not found")

const schema = `
	CREATE TABLE IF NOT EXISTS rated_entities (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		positive INTEGER NULL,
		neutral INTEGER NULL,
		negative INTEGER NULL,
		updated_at VARCHAR(32) NOT NULL
	)
`

type FeedbackRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the rated_entities table when it does not exist yet.
func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create rated_entities: %w", err)
	}
	return nil
}

// UpsertEntity stores the entity's name and counters, replacing any previous row.
func (r *FeedbackRepository) UpsertEntity(ctx context.Context, e models.EntityFeedback) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin UpsertEntity: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rated_entities WHERE id = ?`, e.EntityID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("query UpsertEntity: %w", err)
	}

	updatedAt := r.now().Format(time.RFC3339)
	if exists > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE rated_entities
			SET name = ?, positive = ?, neutral = ?, negative = ?, updated_at = ?
			WHERE id = ?
		`, e.Name, e.Positive, e.Neutral, e.Negative, updatedAt, e.EntityID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rated_entities (id, name, positive, neutral, negative, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.EntityID, e.Name, e.Positive, e.Neutral, e.Negative, updatedAt)
	}
	if err != nil {
		return fmt.Errorf("exec UpsertEntity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit UpsertEntity: %w", err)
	}
	return nil
}

// GetEntityFeedback fetches the counters of a single entity.
func (r *FeedbackRepository) GetEntityFeedback(ctx context.Context, id string) (models.EntityFeedback, error) {
	const query = `
		SELECT id, name, positive, neutral, negative, updated_at
		FROM rated_entities
		WHERE id = ?
	`

	e, err := scanEntity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EntityFeedback{}, ErrNotFound
		}
		return models.EntityFeedback{}, fmt.Errorf("query GetEntityFeedback: %w", err)
	}
	return e, nil
}

// ListEntityFeedback returns every rated entity ordered by id.
func (r *FeedbackRepository) ListEntityFeedback(ctx context.Context) ([]models.EntityFeedback, error) {
	const query = `
		SELECT id, name, positive, neutral, negative, updated_at
		FROM rated_entities
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListEntityFeedback: %w", err)
	}
	defer rows.Close()

	var results []models.EntityFeedback
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListEntityFeedback row: %w", err)
		}
		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListEntityFeedback: %w", err)
	}
	return results, nil
}

// IncrementFeedback adds one to the counter for sentiment. A NULL counter stays NULL.
func (r *FeedbackRepository) IncrementFeedback(ctx context.Context, id string, sentiment models.Sentiment) error {
	column, ok := sentiment.Column()
	if !ok {
		return fmt.Errorf("increment feedback: unknown sentiment %q", sentiment)
	}

	// column comes from a closed set, never from the caller's text
	query := fmt.Sprintf(`UPDATE rated_entities SET %s = %s + 1, updated_at = ? WHERE id = ?`, column, column)

	res, err := r.db.ExecContext(ctx, query, r.now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("exec IncrementFeedback: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows IncrementFeedback: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetEntityFeedback(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.EntityFeedback, error) {
	var (
		e         models.EntityFeedback
		updatedAt string
	)
	if err := row.Scan(&e.EntityID, &e.Name, &e.Positive, &e.Neutral, &e.Negative, &updatedAt); err != nil {
		return models.EntityFeedback{}, err
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		e.UpdatedAt = t
	}
	return e, nil
}

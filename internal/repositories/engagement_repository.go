// file: internal/repositories/engagement_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// engagementRepository implements EngagementRepository on postgres.
// Every mutation runs in one transaction: verify the content row exists,
// mutate the membership set, then recompute the cached counters from set
// cardinality. The sets are the single source of truth.
type engagementRepository struct {
	*BaseRepository
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *database.Manager, logger *zap.Logger) EngagementRepository {
	return &engagementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// SetReaction upserts the reaction, replacing any opposite one atomically
func (r *engagementRepository) SetReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockContentRow(ctx, tx, kind, contentID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_reactions (kind, content_id, profile_id, reaction)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (kind, content_id, profile_id)
			DO UPDATE SET reaction = EXCLUDED.reaction, updated_at = CURRENT_TIMESTAMP`,
			kind, contentID, profileID, reaction,
		)
		if err != nil {
			return fmt.Errorf("failed to set reaction: %w", err)
		}

		return refreshReactionCounts(ctx, tx, kind, contentID)
	})
}

// RemoveReaction deletes the reaction only when it matches the given value
func (r *engagementRepository) RemoveReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockContentRow(ctx, tx, kind, contentID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			DELETE FROM content_reactions
			WHERE kind = $1 AND content_id = $2 AND profile_id = $3 AND reaction = $4`,
			kind, contentID, profileID, reaction,
		)
		if err != nil {
			return fmt.Errorf("failed to remove reaction: %w", err)
		}

		return refreshReactionCounts(ctx, tx, kind, contentID)
	})
}

// Save adds the profile to the item's saved set; idempotent
func (r *engagementRepository) Save(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockContentRow(ctx, tx, kind, contentID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_saves (kind, content_id, profile_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (kind, content_id, profile_id) DO NOTHING`,
			kind, contentID, profileID,
		)
		if err != nil {
			return fmt.Errorf("failed to save content: %w", err)
		}

		return refreshSetCount(ctx, tx, kind, contentID, "content_saves", "save_count")
	})
}

// Unsave removes the profile from the item's saved set; idempotent
func (r *engagementRepository) Unsave(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockContentRow(ctx, tx, kind, contentID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			DELETE FROM content_saves
			WHERE kind = $1 AND content_id = $2 AND profile_id = $3`,
			kind, contentID, profileID,
		)
		if err != nil {
			return fmt.Errorf("failed to unsave content: %w", err)
		}

		return refreshSetCount(ctx, tx, kind, contentID, "content_saves", "save_count")
	})
}

// Share adds the profile to the item's shared set; add-only
func (r *engagementRepository) Share(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockContentRow(ctx, tx, kind, contentID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_shares (kind, content_id, profile_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (kind, content_id, profile_id) DO NOTHING`,
			kind, contentID, profileID,
		)
		if err != nil {
			return fmt.Errorf("failed to share content: %w", err)
		}

		return refreshSetCount(ctx, tx, kind, contentID, "content_shares", "share_count")
	})
}

// GetEngagement returns the profile's engagement state across all three
// axes. Reads fail on missing content the same way mutations do.
func (r *engagementRepository) GetEngagement(ctx context.Context, kind models.ContentKind, contentID, profileID int64) (*models.Engagement, error) {
	table, err := contentTable(kind)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table),
		contentID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check content existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	query := `
		SELECT
			(SELECT reaction FROM content_reactions
				WHERE kind = $1 AND content_id = $2 AND profile_id = $3),
			EXISTS (SELECT 1 FROM content_saves
				WHERE kind = $1 AND content_id = $2 AND profile_id = $3),
			EXISTS (SELECT 1 FROM content_shares
				WHERE kind = $1 AND content_id = $2 AND profile_id = $3)`

	engagement := &models.Engagement{
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
	}

	var reaction sql.NullString
	err = r.QueryRowContext(ctx, query, kind, contentID, profileID).Scan(
		&reaction, &engagement.Saved, &engagement.Shared,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}

	if reaction.Valid {
		engagement.Reaction = &reaction.String
	}

	return engagement, nil
}

// contentTable maps a content kind to its backing table
func contentTable(kind models.ContentKind) (string, error) {
	switch kind {
	case models.ContentKindPost:
		return "posts", nil
	case models.ContentKindQuestion:
		return "questions", nil
	default:
		return "", fmt.Errorf("unknown content kind: %s", kind)
	}
}

// lockContentRow verifies the content item exists and locks its row so the
// counter recompute is serialized per item
func lockContentRow(ctx context.Context, tx *sql.Tx, kind models.ContentKind, contentID int64) error {
	table, err := contentTable(kind)
	if err != nil {
		return err
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, table),
		contentID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock content row: %w", err)
	}

	return nil
}

// refreshReactionCounts recomputes like/dislike counters from the reaction set
func refreshReactionCounts(ctx context.Context, tx *sql.Tx, kind models.ContentKind, contentID int64) error {
	table, err := contentTable(kind)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET
			like_count = (
				SELECT COUNT(*) FROM content_reactions
				WHERE kind = $1 AND content_id = $2 AND reaction = 'like'
			),
			dislike_count = (
				SELECT COUNT(*) FROM content_reactions
				WHERE kind = $1 AND content_id = $2 AND reaction = 'dislike'
			)
		WHERE id = $2`, table),
		kind, contentID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh reaction counters: %w", err)
	}

	return nil
}

// refreshSetCount recomputes a single counter column from its membership set
func refreshSetCount(ctx context.Context, tx *sql.Tx, kind models.ContentKind, contentID int64, setTable, counterColumn string) error {
	table, err := contentTable(kind)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET %s = (
			SELECT COUNT(*) FROM %s
			WHERE kind = $1 AND content_id = $2
		)
		WHERE id = $2`, table, counterColumn, setTable),
		kind, contentID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh %s: %w", counterColumn, err)
	}

	return nil
}

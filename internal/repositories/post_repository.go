// file: internal/repositories/post_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// postRepository implements PostRepository on postgres
type postRepository struct {
	*BaseRepository
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.Manager, logger *zap.Logger) PostRepository {
	return &postRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create creates a new post
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (profile_id, category_id, title, body, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		post.ProfileID, post.CategoryID, post.Title, post.Body, post.Tags,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create post",
			zap.Error(err),
			zap.Int64("profile_id", post.ProfileID),
			zap.String("title", post.Title),
		)
		return fmt.Errorf("failed to create post: %w", err)
	}

	post.LikeCount = 0
	post.DislikeCount = 0
	post.SaveCount = 0
	post.ShareCount = 0

	r.GetLogger().Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("profile_id", post.ProfileID),
	)

	return nil
}

const postSelect = `
	SELECT
		p.id, p.profile_id, p.category_id, p.title, p.body, p.tags,
		p.like_count, p.dislike_count, p.save_count, p.share_count,
		p.created_at, p.updated_at,
		pr.profile_name, pr.avatar_url,
		vr.reaction AS viewer_reaction,
		(vs.profile_id IS NOT NULL) AS is_saved
	FROM posts p
	INNER JOIN profiles pr ON p.profile_id = pr.id
	LEFT JOIN content_reactions vr
		ON vr.kind = 'post' AND vr.content_id = p.id AND vr.profile_id = $1
	LEFT JOIN content_saves vs
		ON vs.kind = 'post' AND vs.content_id = p.id AND vs.profile_id = $1`

// GetByID retrieves a post with author and viewer context in one query
func (r *postRepository) GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Post, error) {
	query := postSelect + ` WHERE p.id = $2`

	post, err := r.scanPost(r.QueryRowContext(ctx, query, nullableID(viewerProfileID), id))
	if err != nil {
		return nil, err
	}

	if viewerProfileID != nil {
		post.IsOwner = post.ProfileID == *viewerProfileID
	}

	return post, nil
}

// Update updates a post's mutable fields
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			category_id = $2, title = $3, body = $4, tags = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		post.ID, post.CategoryID, post.Title, post.Body, post.Tags,
	).Scan(&post.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// Delete removes a post; engagement rows cascade via triggers in the schema
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotFound
		}

		// Drop orphaned engagement rows for the deleted item
		for _, table := range []string{"content_reactions", "content_saves", "content_shares"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE kind = 'post' AND content_id = $1`, table),
				id,
			); err != nil {
				return fmt.Errorf("failed to clean up %s: %w", table, err)
			}
		}

		return nil
	})
}

// ===============================
// LISTING AND SEARCH
// ===============================

// List retrieves posts with pagination, optionally filtered by category
func (r *postRepository) List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Post], error) {
	where := ""
	args := []interface{}{nil} // viewer slot, unused on public listings

	if categoryID != nil {
		where = "p.category_id = $2"
		args = append(args, *categoryID)
	}

	return r.listPosts(ctx, where, args, params)
}

// ListByProfile retrieves a profile's posts with pagination
func (r *postRepository) ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	return r.listPosts(ctx, "p.profile_id = $2", []interface{}{nil, profileID}, params)
}

// Search matches the escaped term case-insensitively against title, body
// and tags. Pattern metacharacters in the term are literals.
func (r *postRepository) Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	pattern := "%" + EscapeLikePattern(term) + "%"
	where := `(
		p.title ILIKE $2 ESCAPE '\' OR
		p.body ILIKE $2 ESCAPE '\' OR
		EXISTS (SELECT 1 FROM unnest(p.tags) AS tag WHERE tag ILIKE $2 ESCAPE '\')
	)`

	return r.listPosts(ctx, where, []interface{}{nil, pattern}, params)
}

func (r *postRepository) listPosts(ctx context.Context, where string, args []interface{}, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	countQuery := `SELECT COUNT(*) FROM posts p`
	if where != "" {
		countQuery += " WHERE " + where
	}
	// Count query has no viewer slot; shift placeholders down by one
	total, err := r.GetTotalCount(ctx, shiftPlaceholders(countQuery), args[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	query, queryArgs := r.BuildPaginatedQuery(postSelect, where, "created_at", params, args)

	rows, err := r.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[models.Post]{
		Data:       posts,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

func (r *postRepository) scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var viewerReaction sql.NullString

	err := row.Scan(
		&post.ID, &post.ProfileID, &post.CategoryID, &post.Title, &post.Body,
		&post.Tags,
		&post.LikeCount, &post.DislikeCount, &post.SaveCount, &post.ShareCount,
		&post.CreatedAt, &post.UpdatedAt,
		&post.AuthorName, &post.AuthorAvatarURL,
		&viewerReaction, &post.IsSaved,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	if viewerReaction.Valid {
		post.ViewerReaction = &viewerReaction.String
	}

	return &post, nil
}

// ===============================
// SHARED HELPERS
// ===============================

// EscapeLikePattern escapes LIKE/ILIKE metacharacters so a search term
// matches literally
func EscapeLikePattern(term string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(term)
}

// nullableID converts an optional ID into a query argument
func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// shiftPlaceholders renumbers $2..$n down by one for queries that drop the
// leading viewer argument
func shiftPlaceholders(query string) string {
	// Placeholders above $9 do not occur in these queries
	replacer := strings.NewReplacer(
		"$2", "$1", "$3", "$2", "$4", "$3", "$5", "$4",
	)
	return replacer.Replace(query)
}

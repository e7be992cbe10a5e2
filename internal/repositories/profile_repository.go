// file: internal/repositories/profile_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// profileRepository implements ProfileRepository on postgres.
// The single-default invariant is backed by the partial unique index on
// (account_id) WHERE is_default. The index is validated per statement, so
// every promotion demotes siblings first inside the same transaction.
type profileRepository struct {
	*BaseRepository
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.Manager, logger *zap.Logger) ProfileRepository {
	return &profileRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const profileColumns = `
	id, account_id, profile_name, display_name, bio, avatar_url,
	kind, status, is_active, is_default, settings, metadata,
	created_at, updated_at
`

// Create inserts a profile. The account's first profile is always created
// default; a default-flagged insert demotes the account's other profiles
// inside the same transaction, before the insert so the partial unique
// index never sees two defaults.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := lockAccountRow(ctx, tx, profile.AccountID); err != nil {
			return err
		}

		var hasProfiles bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM profiles WHERE account_id = $1)`,
			profile.AccountID,
		).Scan(&hasProfiles)
		if err != nil {
			return fmt.Errorf("failed to check existing profiles: %w", err)
		}
		if !hasProfiles {
			profile.IsDefault = true
		}

		if profile.IsDefault {
			if err := demoteSiblings(ctx, tx, profile.AccountID, 0); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO profiles (
				account_id, profile_name, display_name, bio, avatar_url,
				kind, status, is_active, is_default, settings, metadata
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`

		err = tx.QueryRowContext(
			ctx, query,
			profile.AccountID, profile.ProfileName, profile.DisplayName,
			profile.Bio, profile.AvatarURL, profile.Kind, profile.Status,
			profile.IsActive, profile.IsDefault, profile.Settings, profile.Metadata,
		).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

		if err != nil {
			if r.IsUniqueViolation(err, "profiles_account_name_key") {
				return ErrDuplicateProfileName
			}
			return fmt.Errorf("failed to create profile: %w", err)
		}

		r.GetLogger().Info("profile created",
			zap.Int64("profile_id", profile.ID),
			zap.Int64("account_id", profile.AccountID),
			zap.String("profile_name", profile.ProfileName),
			zap.Bool("is_default", profile.IsDefault),
		)

		return nil
	})
}

// GetByID retrieves a profile by ID
func (r *profileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT` + profileColumns + `FROM profiles WHERE id = $1`
	return r.scanProfile(r.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a profile by its per-account name, case-insensitively
func (r *profileRepository) GetByName(ctx context.Context, accountID int64, profileName string) (*models.Profile, error) {
	query := `SELECT` + profileColumns + `
		FROM profiles WHERE account_id = $1 AND lower(profile_name) = lower($2)`
	return r.scanProfile(r.QueryRowContext(ctx, query, accountID, profileName))
}

// ListByAccount returns the account's profiles, default first, then by
// creation time ascending
func (r *profileRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.Profile, error) {
	query := `SELECT` + profileColumns + `
		FROM profiles WHERE account_id = $1
		ORDER BY is_default DESC, created_at ASC, id ASC`

	rows, err := r.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// GetDefault returns the account's default profile
func (r *profileRepository) GetDefault(ctx context.Context, accountID int64) (*models.Profile, error) {
	query := `SELECT` + profileColumns + `
		FROM profiles WHERE account_id = $1 AND is_default = true`
	return r.scanProfile(r.QueryRowContext(ctx, query, accountID))
}

// Update persists mutable fields. A default-flagged update demotes siblings
// first, then promotes, so the partial unique index never sees two defaults
// within the transaction.
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if profile.IsDefault {
			if err := demoteSiblings(ctx, tx, profile.AccountID, profile.ID); err != nil {
				return err
			}
		}

		query := `
			UPDATE profiles SET
				profile_name = $2, display_name = $3, bio = $4, avatar_url = $5,
				kind = $6, status = $7, is_active = $8, is_default = $9,
				settings = $10, metadata = $11,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRowContext(
			ctx, query,
			profile.ID, profile.ProfileName, profile.DisplayName,
			profile.Bio, profile.AvatarURL, profile.Kind, profile.Status,
			profile.IsActive, profile.IsDefault, profile.Settings, profile.Metadata,
		).Scan(&profile.UpdatedAt)

		if err != nil {
			if r.IsUniqueViolation(err, "profiles_account_name_key") {
				return ErrDuplicateProfileName
			}
			if r.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}

		return nil
	})
}

// SetDefault promotes the given profile inside one transaction, demoting
// every sibling first
func (r *profileRepository) SetDefault(ctx context.Context, accountID, profileID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		exists := false
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1 AND account_id = $2)`,
			profileID, accountID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check profile ownership: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		if err := demoteSiblings(ctx, tx, accountID, profileID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE profiles SET is_default = true, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND is_default = false`,
			profileID,
		)
		if err != nil {
			return fmt.Errorf("failed to set default profile: %w", err)
		}

		return nil
	})
}

// Delete removes a profile; deleting the default promotes the earliest
// surviving profile in the same transaction
func (r *profileRepository) Delete(ctx context.Context, id int64) (*int64, error) {
	var promotedID *int64

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var accountID int64
		var wasDefault bool

		err := tx.QueryRowContext(ctx,
			`DELETE FROM profiles WHERE id = $1 RETURNING account_id, is_default`,
			id,
		).Scan(&accountID, &wasDefault)
		if err != nil {
			if r.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		if !wasDefault {
			return nil
		}

		var survivor int64
		err = tx.QueryRowContext(ctx,
			`UPDATE profiles SET is_default = true, updated_at = CURRENT_TIMESTAMP
			WHERE id = (
				SELECT id FROM profiles
				WHERE account_id = $1
				ORDER BY created_at ASC, id ASC
				LIMIT 1
			)
			RETURNING id`,
			accountID,
		).Scan(&survivor)
		if err != nil {
			if r.IsNotFound(err) {
				// Last profile deleted; the account has none left
				return nil
			}
			return fmt.Errorf("failed to promote surviving profile: %w", err)
		}

		promotedID = &survivor
		r.GetLogger().Info("default profile reassigned after delete",
			zap.Int64("account_id", accountID),
			zap.Int64("deleted_id", id),
			zap.Int64("promoted_id", survivor),
		)

		return nil
	})

	return promotedID, err
}

// CountByAccount returns the number of profiles owned by the account
func (r *profileRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE account_id = $1`, accountID,
	).Scan(&count)
	return count, err
}

// lockAccountRow locks the owning account row so concurrent profile
// creates for one account serialize; two first-profile creates must not
// both observe an empty account
func lockAccountRow(ctx context.Context, tx *sql.Tx, accountID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock account row: %w", err)
	}
	return nil
}

// demoteSiblings clears is_default from every other profile of the account;
// caller holds the transaction
func demoteSiblings(ctx context.Context, tx *sql.Tx, accountID, keepID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE profiles SET is_default = false, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = $1 AND id <> $2 AND is_default = true`,
		accountID, keepID,
	)
	if err != nil {
		return fmt.Errorf("failed to demote sibling profiles: %w", err)
	}
	return nil
}

func (r *profileRepository) scanProfile(row rowScanner) (*models.Profile, error) {
	var profile models.Profile

	err := row.Scan(
		&profile.ID, &profile.AccountID, &profile.ProfileName,
		&profile.DisplayName, &profile.Bio, &profile.AvatarURL,
		&profile.Kind, &profile.Status, &profile.IsActive, &profile.IsDefault,
		&profile.Settings, &profile.Metadata,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	return &profile, nil
}

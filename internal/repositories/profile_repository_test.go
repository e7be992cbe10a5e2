// file: internal/repositories/profile_repository_test.go
package repositories

import (
	"context"
	"testing"
	"time"

	"personahub/internal/config"
	"personahub/internal/database"
	"personahub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newMockManager wraps a sqlmock connection in a database manager so the
// repositories can run against scripted SQL expectations
func newMockManager(t *testing.T) (*database.Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.DatabaseConfig{SlowQueryThreshold: time.Second}
	return database.NewManagerFromDB(db, cfg, zap.NewNop()), mock
}

func profileRow(id, accountID int64, name string, isDefault bool, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "account_id", "profile_name", "display_name", "bio", "avatar_url",
		"kind", "status", "is_active", "is_default", "settings", "metadata",
		"created_at", "updated_at",
	}).AddRow(
		id, accountID, name, name, nil, nil,
		models.ProfileKindPublic, models.ProfileStatusPublic, true, isDefault,
		[]byte(`{}`), []byte(`{}`), now, now,
	)
}

// The column list and the FROM keyword must stay separated by whitespace;
// a glued "updated_atFROM" would break every lookup
func TestProfileLookupQueryShape(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())

	mock.ExpectQuery(`updated_at\s+FROM profiles WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(profileRow(7, 3, "Gamer", true, time.Now()))

	profile, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), profile.ID)
	assert.Equal(t, "Gamer", profile.ProfileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A default-flagged create demotes siblings before the insert; the partial
// unique index on (account_id) WHERE is_default is checked per statement,
// so inserting first would raise a unique violation
func TestProfileCreateDemotesSiblingsBeforeInsert(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM profiles WHERE account_id = \$1\)`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE profiles SET is_default = false`).
		WithArgs(int64(3), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(9), now, now))
	mock.ExpectCommit()

	profile := &models.Profile{
		AccountID:   3,
		ProfileName: "Gamer",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
		IsDefault:   true,
		Settings:    models.DefaultProfileSettings(),
	}
	require.NoError(t, repo.Create(context.Background(), profile))
	assert.Equal(t, int64(9), profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The account's first profile is created default even when the caller did
// not ask for it
func TestProfileCreateFirstForcedDefault(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM profiles WHERE account_id = \$1\)`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE profiles SET is_default = false`).
		WithArgs(int64(3), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))
	mock.ExpectCommit()

	profile := &models.Profile{
		AccountID:   3,
		ProfileName: "starter",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
		IsDefault:   false,
		Settings:    models.DefaultProfileSettings(),
	}
	require.NoError(t, repo.Create(context.Background(), profile))
	assert.True(t, profile.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A default-flagged update also demotes first, then promotes
func TestProfileUpdateDemotesSiblingsFirst(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE profiles SET is_default = false`).
		WithArgs(int64(3), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE profiles SET\s+profile_name = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	profile := &models.Profile{
		ID:          9,
		AccountID:   3,
		ProfileName: "Gamer",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
		IsDefault:   true,
		Settings:    models.DefaultProfileSettings(),
	}
	require.NoError(t, repo.Update(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// SetDefault runs demote and promote as separate statements in one
// transaction, demote first
func TestProfileSetDefaultDemoteThenPromote(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM profiles WHERE id = \$1 AND account_id = \$2\)`).
		WithArgs(int64(9), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE profiles SET is_default = false`).
		WithArgs(int64(3), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE profiles SET is_default = true`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetDefault(context.Background(), 3, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileSetDefaultUnknownProfile(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewProfileRepository(manager, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM profiles WHERE id = \$1 AND account_id = \$2\)`).
		WithArgs(int64(404), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.SetDefault(context.Background(), 3, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

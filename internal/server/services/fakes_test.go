package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/config"
	"github.com/commis-dev/commis/internal/server/models"
	apitokensrepo "github.com/commis-dev/commis/internal/server/repositories/apitokens"
	sessionsrepo "github.com/commis-dev/commis/internal/server/repositories/devicesessions"
	"github.com/commis-dev/commis/internal/server/repositories/repomanager"
	usersrepo "github.com/commis-dev/commis/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:            "k",
		SiteURL:              "http://localhost:3000",
		AccessTokenValidity:  time.Hour,
		RefreshTokenValidity: 2 * time.Hour,
		DeviceCodeValidity:   10 * time.Minute,
		SessionValidity:      24 * time.Hour,
	}
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

type fakeSessionsRepo struct {
	created   *models.DeviceSession
	createErr error

	byCodeOut *models.DeviceSession
	byCodeErr error

	byDeviceCodeOut *models.DeviceSession
	byDeviceCodeErr error

	activeExists bool
	activeErr    error
	activeCalls  int

	verifiedID     string
	verifiedUserID string
	verifyErr      error

	deletedID string
	deleteErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.DeviceSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = s
	return nil
}
func (f *fakeSessionsRepo) FindByCode(ctx context.Context, code string) (*models.DeviceSession, error) {
	if f.byCodeErr != nil {
		return nil, f.byCodeErr
	}
	return f.byCodeOut, nil
}
func (f *fakeSessionsRepo) FindByDeviceCode(ctx context.Context, deviceCode string) (*models.DeviceSession, error) {
	if f.byDeviceCodeErr != nil {
		return nil, f.byDeviceCodeErr
	}
	return f.byDeviceCodeOut, nil
}
func (f *fakeSessionsRepo) ActiveCodeExists(ctx context.Context, code string, now time.Time) (bool, error) {
	f.activeCalls++
	if f.activeErr != nil {
		return false, f.activeErr
	}
	// Report a collision only on the first draw so retry paths terminate.
	if f.activeExists && f.activeCalls == 1 {
		return true, nil
	}
	return false, nil
}
func (f *fakeSessionsRepo) MarkVerified(ctx context.Context, id string, userID string) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verifiedID = id
	f.verifiedUserID = userID
	return nil
}
func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

type fakeTokensRepo struct {
	created   *models.APIToken
	createErr error

	byIDOut *models.APIToken
	byIDErr error

	byHashOut *models.APIToken
	byHashErr error

	byRefreshHashOut *models.APIToken
	byRefreshHashErr error

	rotatedID string
	rotation  apitokensrepo.Rotation
	rotateErr error

	touchedID string
	touchErr  error

	listOut []*models.APIToken
	listErr error

	deletedID string
	deleteErr error
}

func (f *fakeTokensRepo) Create(ctx context.Context, token *models.APIToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = token
	return nil
}
func (f *fakeTokensRepo) FindByID(ctx context.Context, id string) (*models.APIToken, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}
func (f *fakeTokensRepo) FindByTokenHash(ctx context.Context, hash string) (*models.APIToken, error) {
	if f.byHashErr != nil {
		return nil, f.byHashErr
	}
	return f.byHashOut, nil
}
func (f *fakeTokensRepo) FindByRefreshTokenHash(ctx context.Context, hash string) (*models.APIToken, error) {
	if f.byRefreshHashErr != nil {
		return nil, f.byRefreshHashErr
	}
	return f.byRefreshHashOut, nil
}
func (f *fakeTokensRepo) Rotate(ctx context.Context, id string, rotation apitokensrepo.Rotation) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	f.rotatedID = id
	f.rotation = rotation
	return nil
}
func (f *fakeTokensRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchedID = id
	return nil
}
func (f *fakeTokensRepo) ListByUser(ctx context.Context, userID string) ([]*models.APIToken, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeTokensRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	ds *fakeSessionsRepo
	at *fakeTokensRepo
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository            { return m.u }
func (m *fakeRepoManager) DeviceSessions(db dbx.DBTX) sessionsrepo.Repository {
	return m.ds
}
func (m *fakeRepoManager) APITokens(db dbx.DBTX) apitokensrepo.Repository { return m.at }

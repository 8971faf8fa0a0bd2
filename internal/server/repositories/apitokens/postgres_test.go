package apitokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func tokenRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "token_hash", "refresh_token_hash", "expires_at", "refresh_expires_at",
		"device_id", "device_name", "device_hostname", "device_platform", "last_used_at", "created_at",
	})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+api_tokens\b.*VALUES\s*\(\$1,.*\$10\)\s*$`

	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "u1", "th", "rh", sqlmock.AnyArg(), sqlmock.AnyArg(), "dev1", "host (Linux)", "host", "linux").
		WillReturnResult(sqlmock.NewResult(0, 1))

	token := &models.APIToken{
		UserID:           "u1",
		TokenHash:        "th",
		RefreshTokenHash: "rh",
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour),
		RefreshExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		DeviceID:         "dev1",
		DeviceName:       "host (Linux)",
		DeviceHostname:   "host",
		DevicePlatform:   "linux",
	}
	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestFindByRefreshTokenHash_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := tokenRows().AddRow(
		"t1", "u1", "th", "rh", time.Now().Add(time.Hour), time.Now().Add(24*time.Hour),
		"dev1", "host (Linux)", "host", "linux", nil, time.Now(),
	)
	mock.ExpectQuery(`WHERE\s+refresh_token_hash\s*=\s*\$1`).WithArgs("rh").WillReturnRows(rows)

	got, err := repo.FindByRefreshTokenHash(context.Background(), "rh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "t1" || got.UserID != "u1" || got.LastUsedAt != nil {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByTokenHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+token_hash\s*=\s*\$1`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTokenHash(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestRotate_OverwritesBothHashes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+api_tokens\s+SET\s+token_hash\s*=\s*\$2,\s*refresh_token_hash\s*=\s*\$3,.*WHERE\s+id\s*=\s*\$1\s*$`
	now := time.Now()

	mock.ExpectExec(q).
		WithArgs("t1", "newth", "newrh", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Rotate(context.Background(), "t1", Rotation{
		TokenHash:        "newth",
		RefreshTokenHash: "newrh",
		ExpiresAt:        now.Add(7 * 24 * time.Hour),
		RefreshExpiresAt: now.Add(30 * 24 * time.Hour),
		LastUsedAt:       now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTouchLastUsed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+api_tokens\s+SET\s+last_used_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastUsed(context.Background(), "t1", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListByUser_ReturnsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	used := time.Now()
	rows := tokenRows().
		AddRow("t1", "u1", "h1", "r1", time.Now(), time.Now(), "d1", "n1", "h1", "linux", used, time.Now()).
		AddRow("t2", "u1", "h2", "r2", time.Now(), time.Now(), "d2", "n2", "h2", "darwin", nil, time.Now())

	mock.ExpectQuery(`WHERE\s+user_id\s*=\s*\$1`).WithArgs("u1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].LastUsedAt == nil || got[1].LastUsedAt != nil {
		t.Fatalf("unexpected last_used_at values: %+v %+v", got[0].LastUsedAt, got[1].LastUsedAt)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+api_tokens\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/commis-dev/commis/internal/common"
	"github.com/commis-dev/commis/internal/server/auth"
	"github.com/commis-dev/commis/internal/server/models"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, rm, testConfig())
}

func TestRegister_Success(t *testing.T) {
	u := &fakeUsersRepo{
		byEmailErr: common.ErrorNotFound,
		createOut:  &models.User{ID: "u1", Email: "a@b.c", Name: "Ann"},
	}
	s := newUserService(t, &fakeRepoManager{u: u})

	user, err := s.Register(context.Background(), "a@b.c", "Ann", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	u := &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", Email: "a@b.c"}}
	s := newUserService(t, &fakeRepoManager{u: u})

	if _, err := s.Register(context.Background(), "a@b.c", "Ann", "s3cret"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	u := &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", PasswordHash: hash}}
	s := newUserService(t, &fakeRepoManager{u: u})

	token, err := s.Login(context.Background(), "a@b.c", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	userID, err := auth.GetUserIDFromSessionToken(token, s.secretKey)
	if err != nil {
		t.Fatalf("session token does not validate: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("unexpected subject %q", userID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	u := &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", PasswordHash: hash}}
	s := newUserService(t, &fakeRepoManager{u: u})

	if _, err := s.Login(context.Background(), "a@b.c", "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	u := &fakeUsersRepo{byEmailErr: common.ErrorNotFound}
	s := newUserService(t, &fakeRepoManager{u: u})

	if _, err := s.Login(context.Background(), "nobody@b.c", "s3cret"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	u := &fakeUsersRepo{byIDErr: common.ErrorNotFound}
	s := newUserService(t, &fakeRepoManager{u: u})

	if _, err := s.GetUser(context.Background(), "gone"); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

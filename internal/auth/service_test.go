package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/lumenpress/albumforge-backend/pkg/auth"
	"github.com/lumenpress/albumforge-backend/pkg/config"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/security"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS studio_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret!",
		Issuer:            "albumforge-test",
		ExpirationMinutes: 60,
	}
}

func seedStudioUser(t *testing.T, db *gorm.DB, email, password string) *models.StudioUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)

	user := &models.StudioUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Lumen Press",
	}
	require.NoError(t, NewRepository(db).Create(context.Background(), user))
	return user
}

func TestLoginMintsParseableToken(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := testJWTConfig()
	svc, err := NewService(ServiceParams{UserRepo: NewRepository(db), JWTConfig: cfg})
	require.NoError(t, err)

	user := seedStudioUser(t, db, "studio@example.com", "correct horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Studio@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := pkgauth.ParseStudioToken(cfg, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.StudioUserID)
	assert.Equal(t, "studio@example.com", claims.Email)

	stored, err := NewRepository(db).FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, err := NewService(ServiceParams{UserRepo: NewRepository(db), JWTConfig: testJWTConfig()})
	require.NoError(t, err)

	seedStudioUser(t, db, "studio@example.com", "correct horse")

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "studio@example.com",
		Password: "battery staple",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, err := NewService(ServiceParams{UserRepo: NewRepository(db), JWTConfig: testJWTConfig()})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, err := NewService(ServiceParams{UserRepo: NewRepository(db), JWTConfig: testJWTConfig()})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

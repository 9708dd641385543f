// Package testutil wires handler tests against the real fiber app and an
// in-memory sqlite database standing in for postgres.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexfirm-backend/internal/auth"
	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TestSecret = "test-secret-test-secret-test-secret!"

func Config() *config.Config {
	return &config.Config{
		HTTPPort:             "0",
		JWTSecret:            TestSecret,
		TokenTTL:             time.Hour,
		CORSOrigins:          "http://localhost:5173",
		AppEnv:               "test",
		ActivityQueryTimeout: 5 * time.Second,
	}
}

// SetupDB swaps the global DB for a fresh in-memory sqlite instance.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, or every pooled conn gets its own :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	database.DB = db
	return db
}

// App builds the real route table against the test config.
func App(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	cfg := Config()
	SetupDB(t)
	return server.New(cfg), cfg
}

func CreateLawyer(t *testing.T, name, initials string, rank models.LawyerRank) models.Lawyer {
	t.Helper()
	l := models.Lawyer{
		Name:     name,
		Initials: initials,
		Email:    initials + "@firm.test",
		Rank:     rank,
		Status:   models.LawyerActive,
	}
	require.NoError(t, database.DB.Create(&l).Error)
	return l
}

func CreateUser(t *testing.T, name, email string, role models.UserRole, lawyerID *uint) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		LawyerID:     lawyerID,
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func CreateClient(t *testing.T, name string, owners ...models.Lawyer) models.Client {
	t.Helper()
	cl := models.Client{
		Name:         name,
		VATStatus:    models.NonVAT,
		LawyerOwners: owners,
	}
	require.NoError(t, database.DB.Create(&cl).Error)
	return cl
}

func Token(t *testing.T, cfg *config.Config, u *models.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(cfg.JWTSecret, u, cfg.TokenTTL)
	require.NoError(t, err)
	return tok
}

// Do runs one request through the app with an optional bearer token and
// JSON body.
func Do(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode unmarshals a JSON response body into out.
func Decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, out), "body: %s", buf)
}

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lexfirm-backend/internal/auth"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeRequiresSession(t *testing.T) {
	app, _ := testutil.App(t)

	resp := testutil.Do(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeResolvesLawyerRank(t *testing.T) {
	app, cfg := testutil.App(t)

	l := testutil.CreateLawyer(t, "Alice Reyes", "AR", models.RankJuniorPartner)
	u := testutil.CreateUser(t, "Alice", "alice@firm.test", models.RoleLawyer, &l.ID)

	resp := testutil.Do(t, app, http.MethodGet, "/api/auth/me", testutil.Token(t, cfg, &u), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	testutil.Decode(t, resp, &out)
	assert.Equal(t, "Junior Partner", out["rank"])
	assert.Equal(t, float64(l.ID), out["lawyer_id"])
}

// A valid token for a user that was since deleted does not authenticate.
func TestDeletedUserIsSignedOut(t *testing.T) {
	app, cfg := testutil.App(t)

	u := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	tok := testutil.Token(t, cfg, &u)

	u.MarkDeleted(u.ID)
	require.NoError(t, database.DB.Save(&u).Error)

	resp := testutil.Do(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginSetsHTTPOnlyCookie(t *testing.T) {
	app, _ := testutil.App(t)

	testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)

	resp := testutil.Do(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "root@firm.test",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie missing")
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)

	// The cookie authenticates follow-up requests.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _ := testutil.App(t)

	testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)

	resp := testutil.Do(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "root@firm.test",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterAdminOnlyBootstraps(t *testing.T) {
	app, _ := testutil.App(t)

	body := map[string]any{"name": "Root", "email": "root@firm.test", "password": "password123"}
	resp := testutil.Do(t, app, http.MethodPost, "/api/auth/register-admin", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body["email"] = "second@firm.test"
	resp = testutil.Do(t, app, http.MethodPost, "/api/auth/register-admin", "", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBearerHeaderFallback(t *testing.T) {
	app, cfg := testutil.App(t)

	u := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	tok := testutil.Token(t, cfg, &u)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token "+strings.ToUpper(tok))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

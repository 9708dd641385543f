package lawyer_test

import (
	"net/http"
	"strconv"
	"testing"

	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lawyerBody(email string) map[string]any {
	return map[string]any{
		"name":     "Dana Evans",
		"initials": "DE",
		"email":    email,
		"rank":     "Associate",
	}
}

func TestCreateLawyerRankGate(t *testing.T) {
	app, cfg := testutil.App(t)

	partner := testutil.CreateLawyer(t, "Alice Reyes", "AR", models.RankPartner)
	associate := testutil.CreateLawyer(t, "Ben Cruz", "BC", models.RankAssociate)
	uPartner := testutil.CreateUser(t, "Alice", "alice@firm.test", models.RoleLawyer, &partner.ID)
	uAssociate := testutil.CreateUser(t, "Ben", "ben@firm.test", models.RoleLawyer, &associate.ID)

	// Associates may not manage profiles.
	resp := testutil.Do(t, app, http.MethodPost, "/api/lawyers", testutil.Token(t, cfg, &uAssociate), lawyerBody("de@firm.test"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Partners may.
	resp = testutil.Do(t, app, http.MethodPost, "/api/lawyers", testutil.Token(t, cfg, &uPartner), lawyerBody("de@firm.test"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateLawyerValidation(t *testing.T) {
	app, cfg := testutil.App(t)

	admin := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	tok := testutil.Token(t, cfg, &admin)

	body := lawyerBody("de@firm.test")
	body["initials"] = "TOOLONG"
	resp := testutil.Do(t, app, http.MethodPost, "/api/lawyers", tok, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "initials over five characters")

	body = lawyerBody("de@firm.test")
	body["rank"] = "Intern"
	resp = testutil.Do(t, app, http.MethodPost, "/api/lawyers", tok, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown rank")

	resp = testutil.Do(t, app, http.MethodPost, "/api/lawyers", tok, lawyerBody("de@firm.test"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate email, even with different case.
	body = lawyerBody("DE@firm.test")
	resp = testutil.Do(t, app, http.MethodPost, "/api/lawyers", tok, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateLawyerDiff(t *testing.T) {
	app, cfg := testutil.App(t)

	admin := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	tok := testutil.Token(t, cfg, &admin)
	l := testutil.CreateLawyer(t, "Dana Evans", "DE", models.RankAssociate)
	path := "/api/lawyers/" + strconv.Itoa(int(l.ID))

	resp := testutil.Do(t, app, http.MethodPut, path, tok, map[string]any{"rank": "Senior Associate", "name": "Dana Evans"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	testutil.Decode(t, resp, &out)
	assert.Equal(t, "Updated rank", out["last_change_description"])
}

func TestSoftDeleteLawyerExcludedFromList(t *testing.T) {
	app, cfg := testutil.App(t)

	admin := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	tok := testutil.Token(t, cfg, &admin)
	l := testutil.CreateLawyer(t, "Dana Evans", "DE", models.RankAssociate)

	resp := testutil.Do(t, app, http.MethodDelete, "/api/lawyers/"+strconv.Itoa(int(l.ID)), tok, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = testutil.Do(t, app, http.MethodGet, "/api/lawyers", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	testutil.Decode(t, resp, &list)
	assert.Empty(t, list)

	resp = testutil.Do(t, app, http.MethodGet, "/api/lawyers/"+strconv.Itoa(int(l.ID)), tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

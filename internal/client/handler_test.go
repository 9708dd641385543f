package client_test

import (
	"net/http"
	"strconv"
	"testing"

	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app   *fiber.App
	admin string
	staff string
	l1    string
	L1    models.Lawyer
	L2    models.Lawyer
	L3    models.Lawyer
	acme  models.Client
}

func setup(t *testing.T) fixture {
	app, cfg := testutil.App(t)

	L1 := testutil.CreateLawyer(t, "Alice Reyes", "AR", models.RankPartner)
	L2 := testutil.CreateLawyer(t, "Ben Cruz", "BC", models.RankAssociate)
	L3 := testutil.CreateLawyer(t, "Carla Diaz", "CD", models.RankSeniorAssociate)

	admin := testutil.CreateUser(t, "Root", "root@firm.test", models.RoleAdmin, nil)
	staff := testutil.CreateUser(t, "Desk", "desk@firm.test", models.RoleStaff, nil)
	u1 := testutil.CreateUser(t, "Alice", "alice@firm.test", models.RoleLawyer, &L1.ID)

	acme := testutil.CreateClient(t, "Acme Corp", L1)

	return fixture{
		app:   app,
		admin: testutil.Token(t, cfg, &admin),
		staff: testutil.Token(t, cfg, &staff),
		l1:    testutil.Token(t, cfg, &u1),
		L1:    L1,
		L2:    L2,
		L3:    L3,
		acme:  acme,
	}
}

func clientPath(f fixture) string {
	return "/api/clients/" + strconv.Itoa(int(f.acme.ID))
}

// Changing a client's owners pushes the new owners onto the team of every
// live matter of that client.
func TestUpdateClientOwnersSyncsMatterTeams(t *testing.T) {
	f := setup(t)

	m := models.Matter{
		Title:        "Acme v. Smith",
		DocketNumber: "5.AB12CD",
		Category:     "5",
		Status:       models.MatterActive,
		ClientID:     f.acme.ID,
		TeamAssigned: []models.Lawyer{f.L1, f.L2},
	}
	require.NoError(t, database.DB.Create(&m).Error)

	resp := testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.admin, map[string]any{
		"lawyer_owners": []uint{f.L1.ID, f.L3.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated map[string]any
	testutil.Decode(t, resp, &updated)
	assert.Equal(t, "Updated owners", updated["last_change_description"])

	var reloaded models.Matter
	require.NoError(t, database.DB.Preload("TeamAssigned").First(&reloaded, "id = ?", m.ID).Error)
	assert.True(t, reloaded.OnTeam(f.L1.ID))
	assert.True(t, reloaded.OnTeam(f.L2.ID), "existing team members are kept")
	assert.True(t, reloaded.OnTeam(f.L3.ID), "new owner joined the team")
}

// The route guard accepts any authenticated role on client update; the
// finer gating is frontend-only.
func TestUpdateClientOpenToAnyRole(t *testing.T) {
	f := setup(t)

	resp := testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.staff, map[string]any{
		"name": "Acme Corporation",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated map[string]any
	testutil.Decode(t, resp, &updated)
	assert.Equal(t, "Acme Corporation", updated["name"])
	assert.Equal(t, "Updated name", updated["last_change_description"])
}

func TestUpdateClientBusinessEntityValidation(t *testing.T) {
	f := setup(t)

	resp := testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.admin, map[string]any{
		"is_business_entity": true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.admin, map[string]any{
		"is_business_entity":        true,
		"president_name":            "P. Santos",
		"authorized_representative": "A. Lim",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateClientNoChanges(t *testing.T) {
	f := setup(t)

	resp := testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.admin, map[string]any{
		"name": "Acme Corp",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated map[string]any
	testutil.Decode(t, resp, &updated)
	assert.Equal(t, "No changes detected", updated["last_change_description"])
}

// Duplicate ids in the owners payload resolve to the current owner set
// and are not a change.
func TestUpdateClientDuplicateOwnerIDs(t *testing.T) {
	f := setup(t)

	resp := testutil.Do(t, f.app, http.MethodPut, clientPath(f), f.admin, map[string]any{
		"lawyer_owners": []uint{f.L1.ID, f.L1.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated map[string]any
	testutil.Decode(t, resp, &updated)
	assert.Equal(t, "No changes detected", updated["last_change_description"])
}

func TestViewClientAuthorization(t *testing.T) {
	f := setup(t)

	// Owner sees the client.
	resp := testutil.Do(t, f.app, http.MethodGet, clientPath(f), f.l1, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Staff does not.
	resp = testutil.Do(t, f.app, http.MethodGet, clientPath(f), f.staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = testutil.Do(t, f.app, http.MethodGet, clientPath(f), f.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteClientHardDelete(t *testing.T) {
	f := setup(t)

	// Not for lawyers.
	resp := testutil.Do(t, f.app, http.MethodDelete, clientPath(f), f.l1, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = testutil.Do(t, f.app, http.MethodDelete, clientPath(f), f.admin, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The row is really gone.
	var count int64
	require.NoError(t, database.DB.Model(&models.Client{}).Where("id = ?", f.acme.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteClientBlockedByMatters(t *testing.T) {
	f := setup(t)

	m := models.Matter{
		Title:        "Acme v. Smith",
		DocketNumber: "5.AB12CD",
		Category:     "5",
		Status:       models.MatterActive,
		ClientID:     f.acme.ID,
	}
	require.NoError(t, database.DB.Create(&m).Error)

	resp := testutil.Do(t, f.app, http.MethodDelete, clientPath(f), f.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClientDetailsGroupsMattersByStatus(t *testing.T) {
	f := setup(t)

	for i, status := range []models.MatterStatus{models.MatterActive, models.MatterActive, models.MatterClosed} {
		m := models.Matter{
			Title:        "Matter " + strconv.Itoa(i),
			DocketNumber: "5.AB12C" + strconv.Itoa(i),
			Category:     "5",
			Status:       status,
			ClientID:     f.acme.ID,
		}
		require.NoError(t, database.DB.Create(&m).Error)
	}

	resp := testutil.Do(t, f.app, http.MethodGet, clientPath(f)+"/details", f.l1, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		MattersByStatus map[string][]map[string]any `json:"matters_by_status"`
	}
	testutil.Decode(t, resp, &out)
	assert.Len(t, out.MattersByStatus["Active"], 2)
	assert.Len(t, out.MattersByStatus["Closed"], 1)
}

package matter

import (
	"fmt"
	"sort"

	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoadLawyers resolves a set of lawyer ids, failing with a 400 when any id
// does not reference an existing lawyer.
func LoadLawyers(ids []uint) ([]models.Lawyer, error) {
	if len(ids) == 0 {
		return []models.Lawyer{}, nil
	}

	var lawyers []models.Lawyer
	if err := database.DB.Scopes(models.NotDeleted).Where("id IN ?", ids).Find(&lawyers).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load lawyers")
	}

	found := make(map[uint]bool, len(lawyers))
	for _, l := range lawyers {
		found[l.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("lawyer %d does not exist", id))
		}
	}
	return lawyers, nil
}

// ReconcileTeam unions the requested team with the client's owners.
// Ownership always implies team membership; owners are never silently
// dropped from a matter's team.
func ReconcileTeam(team, owners []models.Lawyer) []models.Lawyer {
	merged := make([]models.Lawyer, 0, len(team)+len(owners))
	seen := make(map[uint]bool, len(team))
	for _, l := range team {
		if !seen[l.ID] {
			seen[l.ID] = true
			merged = append(merged, l)
		}
	}
	for _, l := range owners {
		if !seen[l.ID] {
			seen[l.ID] = true
			merged = append(merged, l)
		}
	}
	return merged
}

// SyncOwnersIntoTeams unions a client's (new) owners into the team of
// every live matter belonging to that client. Called after a client's
// owner set changes.
func SyncOwnersIntoTeams(clientID uint, owners []models.Lawyer) error {
	if len(owners) == 0 {
		return nil
	}

	var matters []models.Matter
	if err := database.DB.Scopes(models.NotDeleted).Preload("TeamAssigned").
		Where("client_id = ?", clientID).Find(&matters).Error; err != nil {
		return err
	}

	for i := range matters {
		m := &matters[i]
		merged := ReconcileTeam(m.TeamAssigned, owners)
		if len(merged) == len(m.TeamAssigned) {
			continue
		}
		if err := database.DB.Model(m).Association("TeamAssigned").Replace(merged); err != nil {
			return err
		}
	}
	return nil
}

// EqualIDSet compares two id slices as sets.
func EqualIDSet(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]uint(nil), a...)
	bs := append([]uint(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

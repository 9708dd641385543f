package matter

import (
	"testing"

	"lexfirm-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func lawyers(ids ...uint) []models.Lawyer {
	out := make([]models.Lawyer, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Lawyer{ID: id})
	}
	return out
}

func ids(ls []models.Lawyer) []uint {
	out := make([]uint, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestReconcileTeamUnionsOwners(t *testing.T) {
	merged := ReconcileTeam(lawyers(2, 3), lawyers(1, 3))
	assert.Equal(t, []uint{2, 3, 1}, ids(merged))
}

func TestReconcileTeamEmptyTeam(t *testing.T) {
	merged := ReconcileTeam(nil, lawyers(1))
	assert.Equal(t, []uint{1}, ids(merged))
}

func TestReconcileTeamDeduplicates(t *testing.T) {
	merged := ReconcileTeam(lawyers(1, 1, 2), lawyers(2))
	assert.Equal(t, []uint{1, 2}, ids(merged))
}

func TestEqualIDSet(t *testing.T) {
	assert.True(t, EqualIDSet([]uint{1, 2, 3}, []uint{3, 2, 1}))
	assert.True(t, EqualIDSet(nil, nil))
	assert.False(t, EqualIDSet([]uint{1, 2}, []uint{1, 2, 3}))
	assert.False(t, EqualIDSet([]uint{1, 4}, []uint{1, 2}))
}

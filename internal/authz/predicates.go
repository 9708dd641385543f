package authz

import "lexfirm-backend/internal/models"

// Composable per-request predicates. Each one answers a single question
// about the principal against a loaded target entity; route policies are
// OR/AND compositions below.

func IsAdmin(p Principal) bool {
	return p.Role == models.RoleAdmin
}

func IsAccountant(p Principal) bool {
	return p.Role == models.RoleAccountant
}

// IsSeniorLawyer: a lawyer ranked Partner or Junior Partner.
func IsSeniorLawyer(p Principal) bool {
	return p.Role == models.RoleLawyer && p.Rank != nil && models.SeniorRank(*p.Rank)
}

func OwnsClient(p Principal, client *models.Client) bool {
	if p.LawyerID == nil || client == nil {
		return false
	}
	return client.OwnedBy(*p.LawyerID)
}

func AssignedToMatter(p Principal, matter *models.Matter) bool {
	if p.LawyerID == nil || matter == nil {
		return false
	}
	return matter.OnTeam(*p.LawyerID)
}

func OwnsOrAssigned(p Principal, client *models.Client, matter *models.Matter) bool {
	return OwnsClient(p, client) || AssignedToMatter(p, matter)
}

// Route-level policies. The matter must be loaded with its Client and
// TeamAssigned associations before these are evaluated.

// CanViewMatter: admin, or a lawyer who owns the client or sits on the
// team. Every other role is denied, accountant included.
func CanViewMatter(p Principal, matter *models.Matter) bool {
	if IsAdmin(p) {
		return true
	}
	return p.Role == models.RoleLawyer && OwnsOrAssigned(p, matter.Client, matter)
}

// CanCreateMatter is evaluated against the target client named in the
// request: for a matter that does not exist yet, the owns-or-assigned gate
// reduces to client ownership.
func CanCreateMatter(p Principal, client *models.Client) bool {
	if IsAdmin(p) {
		return true
	}
	return p.Role == models.RoleLawyer && OwnsClient(p, client)
}

// CanUpdateMatter: admin, accountant, or an owning/assigned lawyer of any
// rank, judged against the matter's existing client and team.
func CanUpdateMatter(p Principal, matter *models.Matter) bool {
	if IsAdmin(p) || IsAccountant(p) {
		return true
	}
	return p.Role == models.RoleLawyer && OwnsOrAssigned(p, matter.Client, matter)
}

// CanManageLawyers gates lawyer-profile create and update.
func CanManageLawyers(p Principal) bool {
	return IsAdmin(p) || IsSeniorLawyer(p)
}

// CanViewClient mirrors the matter view policy; assignedToAny reports
// whether the lawyer sits on the team of any of the client's matters.
func CanViewClient(p Principal, client *models.Client, assignedToAny bool) bool {
	if IsAdmin(p) {
		return true
	}
	return p.Role == models.RoleLawyer && (OwnsClient(p, client) || assignedToAny)
}

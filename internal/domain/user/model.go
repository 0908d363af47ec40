package user

import "fmt"

// Role orders auction capabilities from spectator up to platform admin.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleBidder     Role = "bidder"
	RoleCaptain    Role = "captain"
	RoleAuctioneer Role = "auctioneer"
	RoleAdmin      Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:     0,
	RoleBidder:     1,
	RoleCaptain:    2,
	RoleAuctioneer: 3,
	RoleAdmin:      4,
}

// AtLeast reports whether the role grants everything `min` grants.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// ViewerIDPrefix marks ephemeral spectator identities minted for
// unauthenticated connections.
const ViewerIDPrefix = "viewer-"

// Principal is the authenticated (or ephemeral viewer) identity attached
// to every request.
type Principal struct {
	UserID      string
	DisplayName string
	Role        Role
	// TeamIDs lists teams the principal captains or manages.
	TeamIDs []string
}

// Anonymous reports whether the principal is an ephemeral viewer.
func (p Principal) Anonymous() bool {
	return len(p.UserID) >= len(ViewerIDPrefix) && p.UserID[:len(ViewerIDPrefix)] == ViewerIDPrefix
}

// Package access is the single place auction permissions are decided.
// Every mutating operation consults it instead of branching on roles
// inline.
package access

import (
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/user"
)

// Action is an auction-scoped capability.
type Action string

const (
	// ActionView reads public auction state.
	ActionView Action = "view"
	// ActionChat posts to the session chat stream.
	ActionChat Action = "chat"
	// ActionBid places bids for a team.
	ActionBid Action = "bid"
	// ActionControl starts, pauses, advances, resolves or cancels.
	ActionControl Action = "control"
)

// Target scopes a decision. Team is required for ActionBid.
type Target struct {
	AuctionID string
	Team      *team.Team
}

// Allowed is a pure function of (actor, action, target). Admins and
// auctioneers may control any auction and bid for any team; captains and
// managers bid only for a team that names them; everyone, including
// anonymous viewers, may view and chat.
func Allowed(p user.Principal, action Action, target Target) bool {
	switch action {
	case ActionView, ActionChat:
		return true
	case ActionControl:
		return p.Role.AtLeast(user.RoleAuctioneer)
	case ActionBid:
		if target.Team == nil {
			return false
		}
		if p.Role.AtLeast(user.RoleAuctioneer) {
			return true
		}
		if !p.Role.AtLeast(user.RoleCaptain) {
			return false
		}
		return p.UserID != "" &&
			(target.Team.CaptainID == p.UserID || target.Team.ManagerID == p.UserID)
	default:
		return false
	}
}

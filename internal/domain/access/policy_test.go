package access

import (
	"testing"

	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/user"
)

func policyTeam() *team.Team {
	return &team.Team{
		ID:        "team-1",
		CaptainID: "user-cap",
		ManagerID: "user-mgr",
	}
}

func TestAllowed_Control(t *testing.T) {
	target := Target{AuctionID: "auc-1"}

	cases := []struct {
		role user.Role
		want bool
	}{
		{user.RoleAdmin, true},
		{user.RoleAuctioneer, true},
		{user.RoleCaptain, false},
		{user.RoleBidder, false},
		{user.RoleViewer, false},
	}
	for _, tc := range cases {
		p := user.Principal{UserID: "u", Role: tc.role}
		if got := Allowed(p, ActionControl, target); got != tc.want {
			t.Fatalf("role %s control: expected %v, got %v", tc.role, tc.want, got)
		}
	}
}

func TestAllowed_Bid_TeamScoped(t *testing.T) {
	target := Target{AuctionID: "auc-1", Team: policyTeam()}

	captain := user.Principal{UserID: "user-cap", Role: user.RoleCaptain}
	if !Allowed(captain, ActionBid, target) {
		t.Fatal("captain must bid for own team")
	}

	manager := user.Principal{UserID: "user-mgr", Role: user.RoleCaptain}
	if !Allowed(manager, ActionBid, target) {
		t.Fatal("manager must bid for own team")
	}

	rival := user.Principal{UserID: "user-other", Role: user.RoleCaptain}
	if Allowed(rival, ActionBid, target) {
		t.Fatal("captain of another team must not bid for this one")
	}

	admin := user.Principal{UserID: "user-admin", Role: user.RoleAdmin}
	if !Allowed(admin, ActionBid, target) {
		t.Fatal("admin may bid for any team")
	}

	viewer := user.Principal{UserID: "viewer-abc", Role: user.RoleViewer}
	if Allowed(viewer, ActionBid, target) {
		t.Fatal("viewer must never bid")
	}

	if Allowed(captain, ActionBid, Target{AuctionID: "auc-1"}) {
		t.Fatal("bid without a target team must be denied")
	}
}

func TestAllowed_ViewAndChat_OpenToAll(t *testing.T) {
	target := Target{AuctionID: "auc-1"}
	anonymous := user.Principal{UserID: "viewer-tmp", Role: user.RoleViewer}

	if !Allowed(anonymous, ActionView, target) {
		t.Fatal("anonymous viewer must read public state")
	}
	if !Allowed(anonymous, ActionChat, target) {
		t.Fatal("anonymous viewer must post chat")
	}
}

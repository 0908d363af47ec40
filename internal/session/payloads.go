package session

import "github.com/cricbid/auction-platform/internal/domain/auction"

// Broadcast payload shapes. These are the wire contract for the event
// stream; field changes are breaking for connected clients.

type playerPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Country   string `json:"country,omitempty"`
	Position  string `json:"position,omitempty"`
	BasePrice int64  `json:"basePrice,omitempty"`
}

type startedPayload struct {
	AuctionID   string `json:"auctionId"`
	PlayerCount int    `json:"playerCount"`
	Timer       int    `json:"timerSeconds"`
}

type statusPayload struct {
	AuctionID string `json:"auctionId"`
	Status    string `json:"status"`
	Remaining int    `json:"remainingSeconds"`
}

type currentPlayerPayload struct {
	Player    playerPayload `json:"player"`
	RoundSeq  int64         `json:"roundSeq"`
	Remaining int           `json:"remainingSeconds"`
}

type bidPayload struct {
	BidID     string `json:"bidId"`
	PlayerID  string `json:"playerId"`
	TeamID    string `json:"teamId"`
	BidderID  string `json:"bidderId"`
	Amount    int64  `json:"amount"`
	Required  int64  `json:"nextRequiredAmount"`
	Remaining int    `json:"remainingSeconds"`
}

type timerPayload struct {
	PlayerID  string `json:"playerId"`
	Remaining int    `json:"remainingSeconds"`
}

type soldPayload struct {
	Player playerPayload `json:"player"`
	TeamID string        `json:"teamId"`
	Amount int64         `json:"amount"`
}

type unsoldPayload struct {
	Player playerPayload `json:"player"`
}

type completedPayload struct {
	AuctionID  string             `json:"auctionId"`
	Statistics auction.Statistics `json:"statistics"`
}

package tournament

import "fmt"

// Format determines the expected franchise count for a tournament.
type Format string

const (
	FormatT20    Format = "t20"
	FormatOneDay Format = "one_day"
	FormatTest   Format = "test"
)

// TeamCount returns the conventional franchise count for the format.
func (f Format) TeamCount() int {
	switch f {
	case FormatT20:
		return 8
	case FormatOneDay:
		return 6
	case FormatTest:
		return 4
	default:
		return 0
	}
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// AuctionDefaults seed new auction sessions created for this tournament.
type AuctionDefaults struct {
	MinBid          int64
	MinIncrement    int64
	MaxBid          int64
	TimerSeconds    int
	MinRosterSize   int
	MaxRosterSize   int
	InitialTokens   int64
	AutoPauseOnSold bool
}

// Tournament groups teams, players and auction sessions.
type Tournament struct {
	ID       string
	Name     string
	Format   Format
	Status   Status
	Defaults AuctionDefaults
	TeamIDs  []string
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.Format.TeamCount() == 0 {
		return fmt.Errorf("unknown tournament format %q", t.Format)
	}
	if t.Defaults.MinBid <= 0 {
		return fmt.Errorf("tournament default min bid must be positive")
	}
	if t.Defaults.MinIncrement <= 0 {
		return fmt.Errorf("tournament default min increment must be positive")
	}
	if t.Defaults.TimerSeconds <= 0 {
		return fmt.Errorf("tournament default timer must be positive")
	}

	return nil
}

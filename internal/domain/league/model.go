package league

import (
	"fmt"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusLive     Status = "live"
	StatusComplete Status = "complete"
)

// League is one fantasy hockey league. Scoring only ever runs against live
// leagues with a configured rules set.
type League struct {
	ID     string
	Name   string
	Season string
	Status Status
	Rules  *scoring.Rules
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	switch l.Status {
	case StatusPending, StatusLive, StatusComplete:
	default:
		return fmt.Errorf("invalid league status: %s", l.Status)
	}
	return nil
}

func (l League) HasRules() bool {
	return l.Rules != nil && *l.Rules != (scoring.Rules{})
}

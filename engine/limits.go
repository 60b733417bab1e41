package engine

import (
	"encoding/json"
	"time"
)

// Side indices into Limits.Time and Limits.Increment.
const (
	White = 0
	Black = 1
)

// Limits is the search budget requested by the caller. The zero value means
// "no limits", which searches to the default depth.
type Limits struct {
	Depth     int              `json:"depth,omitempty"`
	MoveTime  time.Duration    `json:"movetime,omitempty"`
	Time      [2]time.Duration `json:"time"`
	Increment [2]time.Duration `json:"increment"`
	MovesToGo int              `json:"movestogo,omitempty"`
	Infinite  bool             `json:"infinite,omitempty"`
}

func (l Limits) String() string {
	out, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// sideIndex maps the side to move onto a Limits index.
func sideIndex(whiteToMove bool) int {
	if whiteToMove {
		return White
	}
	return Black
}

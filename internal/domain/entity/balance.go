package entity

import "time"

// Balance represents the non-renewing point pool. Points only decrease as
// failure events are recorded; the pool is re-based exclusively by an
// explicit user reset.
type Balance struct {
	InitialPoints float64   `json:"initial_points"`
	Points        float64   `json:"points"`
	InitializedAt time.Time `json:"initialized_at"`
}

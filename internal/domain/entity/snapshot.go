package entity

import "time"

// Snapshot is the auxiliary JSON export of the whole ledger: the point pool,
// every goal (active or not) and the full event log.
type Snapshot struct {
	ExportedAt time.Time `json:"exported_at"`
	Balance    *Balance  `json:"balance"`
	Goals      []*Goal   `json:"goals"`
	Events     []*Event  `json:"events"`
}

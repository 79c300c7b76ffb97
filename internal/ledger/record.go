package ledger

import (
	"fmt"
	"time"
)

// Status represents the persisted lifecycle of a job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
)

// JobKey identifies a unit of work.
type JobKey struct {
	Series  string
	Episode int
}

func (k JobKey) String() string {
	return fmt.Sprintf("%s/episode_%d", k.Series, k.Episode)
}

// Record is the ledger entry persisted per job. Timestamps are epoch
// seconds.
type Record struct {
	Status        Status `json:"status"`
	Owner         string `json:"owner"`
	StartTime     int64  `json:"start_time,omitempty"`
	CompletedTime int64  `json:"completed_time,omitempty"`
	Series        string `json:"series"`
	EpisodeIndex  int    `json:"episode_index"`
}

// StaleAt reports whether a processing claim should be treated as abandoned
// at the given instant.
func (r Record) StaleAt(now time.Time, staleAfter time.Duration) bool {
	if r.Status != StatusProcessing {
		return false
	}
	return now.Unix()-r.StartTime >= int64(staleAfter/time.Second)
}

package model

import "time"

// MirrorRecord is the ledger entry for one mirror path, overwritten by every run.
type MirrorRecord struct {
	Path     string  `json:"path"`
	Entity   string  `json:"entity"`
	Name     string  `json:"name"`
	CloneURL string  `json:"clone_url"`
	Outcome  Outcome `json:"outcome"`

	// Head is the local branch tip after the last sync
	Head   string `json:"head,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`

	RunID         string    `json:"run_id"`
	SyncedAt      time.Time `json:"synced_at"`
	LastSuccessAt time.Time `json:"last_success_at,omitzero"`
}

// RunRecord summarizes one mirror run.
type RunRecord struct {
	ID         string         `json:"id"`
	Entity     string         `json:"entity"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitzero"`
	Total      int            `json:"total"`
	Failed     int            `json:"failed"`
	Outcomes   map[string]int `json:"outcomes"`
}

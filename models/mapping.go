package models

import "time"

// IDMapping pairs one device record with one backend record. Both IDs are
// unique across the mapping set of a single identity store.
type IDMapping struct {
	DeviceID       string    `json:"deviceId"`
	PCID           string    `json:"pcId"`
	DeviceCategory string    `json:"deviceCategory"`
	PCCategories   []string  `json:"pcCategories"`
	LastSynced     time.Time `json:"lastSynced"`

	// Archived is kept for audit purposes only; no sync algorithm reads it.
	Archived bool `json:"archived"`
}

// SyncStateFile is the on-disk JSON layout of an identity store.
type SyncStateFile struct {
	UserName     string            `json:"userName"`
	ConduitID    string            `json:"conduitId"`
	LastSyncTime *time.Time        `json:"lastSyncTime,omitempty"`
	LastSyncPC   string            `json:"lastSyncPC"`
	Version      int               `json:"version"`
	Mappings     []IDMapping       `json:"mappings"`
	Baseline     map[string]string `json:"baseline"`
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// SyncMode selects which reconciliation algorithm a conduit runs.
type SyncMode int

const (
	// HotSync processes only records flagged dirty or deleted on the device.
	HotSync SyncMode = iota
	// FullSync compares the complete record sets of both sides.
	FullSync
	// CopyPalmToPC makes the PC side mirror the device.
	CopyPalmToPC
	// CopyPCToPalm writes every PC record to the device.
	CopyPCToPalm
)

var syncModeNames = map[SyncMode]string{
	HotSync:      "hotsync",
	FullSync:     "fullsync",
	CopyPalmToPC: "palm-to-pc",
	CopyPCToPalm: "pc-to-palm",
}

func (m SyncMode) String() string {
	if name, ok := syncModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SyncMode(%d)", int(m))
}

// ParseSyncMode converts a textual mode name (as produced by String) into a SyncMode.
func ParseSyncMode(s string) (SyncMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range syncModeNames {
		if name == s {
			return mode, nil
		}
	}
	return HotSync, fmt.Errorf("unknown sync mode %q", s)
}

// ConflictResolution is the policy applied when both sides of a mapped pair
// changed since the last sync.
type ConflictResolution int

const (
	// PalmWins overwrites the PC record with the device record.
	PalmWins ConflictResolution = iota
	// PCWins overwrites the device record with the PC record.
	PCWins
	// Duplicate splits the pair into two independent pairs.
	Duplicate
	// Skip leaves both sides untouched and counts a conflict.
	Skip
	// AskUser behaves like Skip and reports the conflict to the observer.
	AskUser
	// NewestWins is declared but has no resolution rule yet; it behaves like Skip.
	NewestWins
)

var conflictResolutionNames = map[ConflictResolution]string{
	PalmWins:   "palm-wins",
	PCWins:     "pc-wins",
	Duplicate:  "duplicate",
	Skip:       "skip",
	AskUser:    "ask-user",
	NewestWins: "newest-wins",
}

func (c ConflictResolution) String() string {
	if name, ok := conflictResolutionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ConflictResolution(%d)", int(c))
}

// ParseConflictResolution converts a textual policy name into a ConflictResolution.
func ParseConflictResolution(s string) (ConflictResolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for policy, name := range conflictResolutionNames {
		if name == s {
			return policy, nil
		}
	}
	return Skip, fmt.Errorf("unknown conflict resolution %q", s)
}

// SyncStats counts the outcome of a sync pass for one side.
type SyncStats struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
	Conflicts int `json:"conflicts"`
	Errors    int `json:"errors"`
}

// Total returns the number of records that reached a final state
// (created, updated, deleted or unchanged).
func (s SyncStats) Total() int {
	return s.Created + s.Updated + s.Deleted + s.Unchanged
}

// Add accumulates other into s field by field.
func (s *SyncStats) Add(other SyncStats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Deleted += other.Deleted
	s.Unchanged += other.Unchanged
	s.Conflicts += other.Conflicts
	s.Errors += other.Errors
}

// WarningKind classifies a Warning.
type WarningKind string

const (
	WarningConversion WarningKind = "conversion"
	WarningWrite      WarningKind = "write"
	WarningConflict   WarningKind = "conflict"
	WarningCancelled  WarningKind = "cancelled"
	WarningPolicy     WarningKind = "policy"
)

// Warning is a non-fatal problem reported by a conduit.
type Warning struct {
	ConduitID string      `json:"conduitId"`
	Kind      WarningKind `json:"kind"`
	DeviceID  string      `json:"deviceId,omitempty"`
	PCID      string      `json:"pcId,omitempty"`
	Message   string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.ConduitID, w.Kind, w.Message)
}

// SyncResult is the outcome of a conduit sync, or the aggregate of several.
type SyncResult struct {
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	DeviceStats  SyncStats `json:"deviceStats"`
	PCStats      SyncStats `json:"pcStats"`
	Warnings     []Warning `json:"warnings,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// Conflict describes a pair that changed on both sides and was left
// unresolved for an external decision-maker.
type Conflict struct {
	ConduitID string
	Policy    ConflictResolution
	Device    DeviceRecord
	Backend   BackendRecord
}

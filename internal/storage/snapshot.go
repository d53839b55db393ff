package storage

import (
	"encoding/json"
	"fmt"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/history"
)

// Snapshot is everything the application persists between runs.
type Snapshot struct {
	Library domain.Library
	Daily   domain.DailyStats
	History history.State
}

// Load reads all slots. ok is false when nothing has been saved yet.
// Malformed slot contents are reported as errors.
func (db *DB) Load() (snap Snapshot, ok bool, err error) {
	snap.History = history.State{Index: -1}
	found := false
	for _, slot := range []struct {
		key string
		dst any
	}{
		{libraryKey, &snap.Library},
		{dailyKey, &snap.Daily},
		{historyKey, &snap.History},
	} {
		raw, present, err := db.Get(slot.key)
		if err != nil {
			return Snapshot{}, false, err
		}
		if !present {
			continue
		}
		found = true
		if err := json.Unmarshal(raw, slot.dst); err != nil {
			return Snapshot{}, false, fmt.Errorf("failed to decode slot %s: %w", slot.key, err)
		}
	}
	return snap, found, nil
}

// Save writes all slots in one transaction.
func (db *DB) Save(snap Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	for _, slot := range []struct {
		key string
		src any
	}{
		{libraryKey, snap.Library},
		{dailyKey, snap.Daily},
		{historyKey, snap.History},
	} {
		raw, err := json.Marshal(slot.src)
		if err != nil {
			return fmt.Errorf("failed to encode slot %s: %w", slot.key, err)
		}
		if err := db.put(tx, slot.key, raw); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

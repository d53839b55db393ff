package storage

const schema = `
-- Each row is one JSON-encoded slot of application state.
CREATE TABLE IF NOT EXISTS slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`

// Slot keys.
const (
	libraryKey = "library"
	dailyKey   = "daily_stats"
	historyKey = "history"
)

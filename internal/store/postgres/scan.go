package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/configd/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanConfiguration scans a single row into a model.Configuration.
// The row must contain columns in the order defined by configColumns.
func scanConfiguration(row scannable) (*model.Configuration, error) {
	var c model.Configuration
	var payload []byte

	err := row.Scan(
		&c.ID,
		&c.Service,
		&c.Version,
		&payload,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		c.Payload = json.RawMessage(payload)
	}
	return &c, nil
}

// scanConfigurations scans multiple rows into a slice of Configuration pointers.
func scanConfigurations(rows *sql.Rows) ([]*model.Configuration, error) {
	var configs []*model.Configuration
	for rows.Next() {
		c, err := scanConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return configs, nil
}

// scanHistory scans (version, created_at) rows into history entries.
func scanHistory(rows *sql.Rows) ([]*model.HistoryEntry, error) {
	var entries []*model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Version, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

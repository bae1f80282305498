package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/groblegark/configd/internal/model"
	"github.com/groblegark/configd/internal/store"
)

// configColumns is the column list used for SELECT statements on the
// configurations table.
const configColumns = `id, service, version, payload, created_at`

// uniqueViolation is the postgres error code raised when the
// (service, version) unique constraint rejects an insert.
const uniqueViolation = "23505"

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryInsertConfig(ctx context.Context, db executor, service string, version int, payload json.RawMessage) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO configurations (service, version, payload)
		VALUES ($1, $2, $3)
		RETURNING id`,
		service, version, []byte(payload),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, store.ErrConflict
		}
		return 0, fmt.Errorf("insert configuration: %w", err)
	}
	return id, nil
}

func queryMaxVersion(ctx context.Context, db executor, service string) (int, bool, error) {
	// MAX over zero rows yields NULL, not an empty result set.
	var maxv sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM configurations WHERE service = $1`,
		service,
	).Scan(&maxv)
	if err != nil {
		return 0, false, fmt.Errorf("max version: %w", err)
	}
	if !maxv.Valid {
		return 0, false, nil
	}
	return int(maxv.Int64), true, nil
}

func queryGetConfig(ctx context.Context, db executor, service string, version int) (*model.Configuration, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM configurations WHERE service = $1 AND version = $2`,
		service, version,
	)
	return scanConfiguration(row)
}

func queryGetLatestConfig(ctx context.Context, db executor, service string) (*model.Configuration, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM configurations
		WHERE service = $1 ORDER BY version DESC LIMIT 1`,
		service,
	)
	return scanConfiguration(row)
}

func queryListHistory(ctx context.Context, db executor, service string, limit int) ([]*model.HistoryEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT version, created_at
		FROM configurations
		WHERE service = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		service, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

func queryListAllConfigs(ctx context.Context, db executor) ([]*model.Configuration, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+configColumns+` FROM configurations ORDER BY service, version`,
	)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	defer rows.Close()
	return scanConfigurations(rows)
}

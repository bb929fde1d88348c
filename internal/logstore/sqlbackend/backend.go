// Package sqlbackend implements the log store backend on top of MySQL via
// database/sql. Log table rows and the state-machine commands recorded in
// them execute against the same database, which is what makes apply and
// timestamp stamping crash-consistent with the state machine itself.
package sqlbackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/concordfed/logdb/internal/logstore"
)

const (
	table = "logdb"

	createTable = "CREATE TABLE IF NOT EXISTS " + table +
		" (log_index BIGINT PRIMARY KEY, term BIGINT, sqlcmd MEDIUMBLOB," +
		" timestamp BIGINT, fed_index BIGINT)"
)

var createIndexes = []string{
	"CREATE INDEX fed_index_idx ON " + table + " (fed_index)",
	"CREATE INDEX timestamp_idx ON " + table + " (timestamp)",
}

// MySQL error numbers the adapter maps to logstore sentinels.
const (
	mysqlErrDupEntry     = 1062
	mysqlErrDupIndexName = 1061
)

// Config holds the MySQL connection settings.
type Config struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// DSN renders the config as a go-sql-driver data source name.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

// Backend is a MySQL-backed logstore.Backend. Parameterized statements make
// payload escaping the driver's concern; raw bytes never reach SQL text.
type Backend struct {
	db *sql.DB
}

// New opens the MySQL connection pool for the configured database.
func New(cfg Config) (*Backend, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return &Backend{db: db}, nil
}

// Close closes the underlying connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}

// InitSchema creates the log table and its secondary indices. Index creation
// is retried on every launch; an already-existing index is not an error.
func (b *Backend) InitSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	for _, stmt := range createIndexes {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil && !isMySQLErr(err, mysqlErrDupIndexName) {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// InsertRow inserts one raw log row.
func (b *Backend) InsertRow(ctx context.Context, row logstore.Row) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO "+table+" (log_index, term, sqlcmd, timestamp, fed_index) VALUES (?, ?, ?, ?, ?)",
		row.Index, row.Term, row.Payload, row.Timestamp, row.FedIndex,
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrDupEntry) {
			return fmt.Errorf("%w: %v", logstore.ErrDuplicateKey, err)
		}
		return err
	}
	return nil
}

// SelectRow reads one raw log row by index.
func (b *Backend) SelectRow(ctx context.Context, index int64) (logstore.Row, error) {
	var row logstore.Row
	err := b.db.QueryRowContext(ctx,
		"SELECT log_index, term, sqlcmd, timestamp, fed_index FROM "+table+" WHERE log_index = ?",
		index,
	).Scan(&row.Index, &row.Term, &row.Payload, &row.Timestamp, &row.FedIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return logstore.Row{}, logstore.ErrNotFound
	}
	if err != nil {
		return logstore.Row{}, err
	}
	return row, nil
}

// MaxIndex returns the highest log_index in the table.
func (b *Backend) MaxIndex(ctx context.Context) (int64, error) {
	return b.selectMax(ctx, "SELECT MAX(log_index) FROM "+table+" WHERE log_index >= 0")
}

// MaxAppliedIndex returns the highest applied log_index.
func (b *Backend) MaxAppliedIndex(ctx context.Context) (int64, error) {
	return b.selectMax(ctx, "SELECT MAX(log_index) FROM "+table+" WHERE log_index >= 0 AND timestamp != 0")
}

func (b *Backend) selectMax(ctx context.Context, query string) (int64, error) {
	var max sql.NullInt64
	if err := b.db.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, logstore.ErrNotFound
	}
	return max.Int64, nil
}

// FedIndices returns all federated indices in ascending order.
func (b *Backend) FedIndices(ctx context.Context) ([]int64, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT fed_index FROM "+table+" WHERE fed_index != -1 ORDER BY fed_index",
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var fed int64
		if err := rows.Scan(&fed); err != nil {
			return nil, err
		}
		out = append(out, fed)
	}
	return out, rows.Err()
}

// DeleteFrom removes every row with log_index >= startIndex.
func (b *Backend) DeleteFrom(ctx context.Context, startIndex int64) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE log_index >= ?", startIndex)
	return err
}

// DeleteAppliedBefore removes applied rows below beforeIndex.
func (b *Backend) DeleteAppliedBefore(ctx context.Context, beforeIndex int64) (int64, error) {
	res, err := b.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE timestamp > 0 AND log_index >= 0 AND log_index < ?",
		beforeIndex,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StampApplied sets the timestamp of an unapplied row.
func (b *Backend) StampApplied(ctx context.Context, index, timestamp int64) error {
	_, err := b.db.ExecContext(ctx,
		"UPDATE "+table+" SET timestamp = ? WHERE log_index = ? AND timestamp = 0",
		timestamp, index,
	)
	return err
}

// ReservedPayload reads the consensus state blob from the reserved slot.
func (b *Backend) ReservedPayload(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT sqlcmd FROM "+table+" WHERE log_index = -1 AND term = -1",
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, logstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// UpsertReservedPayload writes the consensus state blob into the reserved
// slot, creating it on first use.
func (b *Backend) UpsertReservedPayload(ctx context.Context, payload []byte) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO "+table+" (log_index, term, sqlcmd, timestamp, fed_index)"+
			" VALUES (-1, -1, ?, 0, -1) ON DUPLICATE KEY UPDATE sqlcmd = VALUES(sqlcmd)",
		payload,
	)
	return err
}

// ExecCommand executes a state-machine command, which is a SQL statement.
func (b *Backend) ExecCommand(ctx context.Context, cmd []byte) error {
	_, err := b.db.ExecContext(ctx, string(cmd))
	return err
}

func isMySQLErr(err error, number uint16) bool {
	var mErr *mysql.MySQLError
	return errors.As(err, &mErr) && mErr.Number == number
}

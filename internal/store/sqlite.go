package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"sockbowl/internal/model"
)

// SQLiteStore persists packets to a local SQLite database. Uses the CGO-free
// modernc driver.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS packets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS tossups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	packet_id INTEGER NOT NULL REFERENCES packets(id),
	ord INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bonuses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	packet_id INTEGER NOT NULL REFERENCES packets(id),
	ord INTEGER NOT NULL,
	preamble TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bonus_parts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bonus_id INTEGER NOT NULL REFERENCES bonuses(id),
	part INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL
);
`

// NewSQLiteStore opens (creating if needed) the database at path and ensures
// the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SavePacket implements PacketStore. The whole packet is written in one
// transaction.
func (s *SQLiteStore) SavePacket(ctx context.Context, packet *model.Packet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO packets (name) VALUES (?)`, packet.Name)
	if err != nil {
		return fmt.Errorf("failed to insert packet: %w", err)
	}
	packetID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read packet id: %w", err)
	}

	for i, t := range packet.Tossups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tossups (packet_id, ord, question, answer) VALUES (?, ?, ?, ?)`,
			packetID, i+1, t.Question, t.Answer); err != nil {
			return fmt.Errorf("failed to insert tossup %d: %w", i+1, err)
		}
	}

	for i, b := range packet.Bonuses {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bonuses (packet_id, ord, preamble) VALUES (?, ?, ?)`,
			packetID, i+1, b.Preamble)
		if err != nil {
			return fmt.Errorf("failed to insert bonus %d: %w", i+1, err)
		}
		bonusID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read bonus id: %w", err)
		}
		for j, part := range b.Parts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bonus_parts (bonus_id, part, question, answer) VALUES (?, ?, ?, ?)`,
				bonusID, j+1, part.Question, part.Answer); err != nil {
				return fmt.Errorf("failed to insert bonus part %d.%d: %w", i+1, j+1, err)
			}
		}
	}

	return tx.Commit()
}

// LoadPacketNames returns the names of all saved packets, newest first.
func (s *SQLiteStore) LoadPacketNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM packets ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query packets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close implements PacketStore.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

// Package sqlite stores players and the match in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const playerColumns = "id, name, has_paid, team, client_id, created_at"

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database file and applies any pending migrations
func New(ctx context.Context, cfg Config) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cfg.Path, cfg.BusyTimeoutMillis)
	if cfg.Path == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", cfg.Path, err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: alive
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// conflictError maps a UNIQUE violation to the rule it broke
func conflictError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}
	if strings.Contains(sqliteErr.Error(), "players.client_id") {
		return model.ErrClientIDRegistered
	}
	return model.ErrNameTaken
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		p         model.Player
		team      sql.NullString
		clientID  sql.NullString
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.HasPaid, &team, &clientID, &createdAt); err != nil {
		return nil, err
	}
	p.Team = model.Team(team.String)
	p.ClientID = clientID.String
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Player operations

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+playerColumns+" FROM players ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO players ("+playerColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		string(player.ID),
		player.Name,
		player.HasPaid,
		nullable(string(player.Team)),
		nullable(player.ClientID),
		player.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return conflictError(err)
	}
	return nil
}

func (s *Storage) queryPlayer(ctx context.Context, query string, args ...any) (*model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.queryPlayer(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", string(id))
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	return s.queryPlayer(ctx, "SELECT "+playerColumns+" FROM players WHERE name = ?", name)
}

func (s *Storage) GetPlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	return s.queryPlayer(ctx, "SELECT "+playerColumns+" FROM players WHERE client_id = ?", clientID)
}

func (s *Storage) TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.queryPlayer(ctx,
		"UPDATE players SET has_paid = NOT has_paid WHERE id = ? RETURNING "+playerColumns, string(id))
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", string(id))
	return err
}

func (s *Storage) DeletePlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	return s.queryPlayer(ctx,
		"DELETE FROM players WHERE client_id = ? RETURNING "+playerColumns, clientID)
}

func (s *Storage) AssignTeams(ctx context.Context, assignment model.TeamAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "UPDATE players SET team = NULL"); err != nil {
		return fmt.Errorf("reset teams: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "UPDATE players SET team = ? WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, team := range assignment {
		if team == model.TeamNone {
			continue
		}
		if _, err := stmt.ExecContext(ctx, string(team), string(id)); err != nil {
			return fmt.Errorf("assign player %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Match operations

func (s *Storage) GetMatch(ctx context.Context) (*model.Match, error) {
	var (
		m         model.Match
		kickoffAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, "SELECT location, kickoff_at FROM match_info WHERE id = 1").
		Scan(&m.Location, &kickoffAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	if kickoffAt.Valid {
		t := time.UnixMilli(kickoffAt.Int64).UTC()
		m.Time = &t
	}
	return &m, nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	var kickoffAt sql.NullInt64
	if match.Time != nil {
		kickoffAt = sql.NullInt64{Int64: match.Time.UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_info (id, location, kickoff_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET location = excluded.location, kickoff_at = excluded.kickoff_at`,
		match.Location, kickoffAt)
	return err
}

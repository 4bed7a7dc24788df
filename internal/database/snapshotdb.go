package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/simprofile/internal/model"
)

// dbFileName is the name of the database file inside the data directory.
const dbFileName = "simprofile.db"

// capturedAtLayout stores capture times in UTC with a fixed width, so the
// text column sorts chronologically.
const capturedAtLayout = "2006-01-02 15:04:05.000000000"

// ErrDatabaseNotFound is returned by Open when the database does not exist
// and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("database not found")

// SnapshotDB provides SQLite-based storage for profile snapshots.
//
// Design decision: We use a single database file for all users rather than
// one file per user. This keeps listing saved users a single query and
// makes backup a single copy.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// Path returns the path of the database file.
func (sdb *SnapshotDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		captured_at TEXT NOT NULL,
		follower_count INTEGER,
		following_count INTEGER,
		project_count INTEGER NOT NULL DEFAULT 0,
		total_views INTEGER NOT NULL DEFAULT 0,
		total_likes INTEGER NOT NULL DEFAULT 0,
		total_credits INTEGER NOT NULL DEFAULT 0,
		stats_complete INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL,
		profile_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_user ON snapshots(username, captured_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores a snapshot of the profile and returns it with its ID and
// digest assigned.
func (sdb *SnapshotDB) Save(ctx context.Context, profile *model.Profile) (model.Snapshot, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to serialize profile: %w", err)
	}

	snap := model.NewSnapshot(*profile)
	snap.ID = uuid.NewString()
	snap.Digest = Digest(profile.Projects)
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = time.Now()
	}

	query := `
	INSERT INTO snapshots (id, username, captured_at, follower_count, following_count,
		project_count, total_views, total_likes, total_credits, stats_complete, digest, profile_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		snap.ID,
		snap.Username,
		snap.CapturedAt.UTC().Format(capturedAtLayout),
		nullCount(snap.FollowerCount),
		nullCount(snap.FollowingCount),
		snap.ProjectCount,
		snap.TotalViews,
		snap.TotalLikes,
		snap.TotalCredits,
		snap.StatsComplete,
		snap.Digest,
		string(profileJSON),
	)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snap, nil
}

// snapshotColumns are the columns scanned by scanSnapshot, in order.
const snapshotColumns = `id, username, captured_at, follower_count, following_count,
	project_count, total_views, total_likes, total_credits, stats_complete, digest`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot reads one row selected with snapshotColumns.
func scanSnapshot(row rowScanner) (model.Snapshot, error) {
	var snap model.Snapshot
	var capturedAt string
	var followers, following sql.NullInt64

	err := row.Scan(
		&snap.ID,
		&snap.Username,
		&capturedAt,
		&followers,
		&following,
		&snap.ProjectCount,
		&snap.TotalViews,
		&snap.TotalLikes,
		&snap.TotalCredits,
		&snap.StatsComplete,
		&snap.Digest,
	)
	if err != nil {
		return model.Snapshot{}, err
	}

	snap.CapturedAt = parseTimestamp(capturedAt)
	snap.FollowerCount = countOf(followers)
	snap.FollowingCount = countOf(following)
	return snap, nil
}

// History returns the snapshots of a user, oldest first.
// A positive limit keeps only the most recent limit snapshots.
func (sdb *SnapshotDB) History(ctx context.Context, username string, limit int) ([]model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
	FROM snapshots
	WHERE username = ?
	ORDER BY captured_at DESC, seq DESC`
	args := []any{username}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	slices.Reverse(snapshots)
	return snapshots, nil
}

// Latest returns the most recent snapshot of a user, or nil if none exists.
func (sdb *SnapshotDB) Latest(ctx context.Context, username string) (*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
	FROM snapshots
	WHERE username = ?
	ORDER BY captured_at DESC, seq DESC
	LIMIT 1`

	snap, err := scanSnapshot(sdb.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return &snap, nil
}

// Profile returns the full profile stored with a snapshot, or nil if no
// snapshot has the ID.
func (sdb *SnapshotDB) Profile(ctx context.Context, id string) (*model.Profile, error) {
	var profileJSON string
	err := sdb.db.QueryRowContext(ctx, `SELECT profile_json FROM snapshots WHERE id = ?`, id).Scan(&profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot profile: %w", err)
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot profile: %w", err)
	}
	return &profile, nil
}

// Users returns every user with at least one snapshot, alphabetically.
func (sdb *SnapshotDB) Users(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx, `SELECT DISTINCT username FROM snapshots ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Digest fingerprints a project list by the numbers a profile shows for
// each project. The order of entries does not matter, so re-sorting the
// grid keeps the digest.
func Digest(entries []model.ProjectEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		s := e.Project.Stats
		lines[i] = fmt.Sprintf("%s\t%d\t%d\t%d\t%d", e.Project.ID, s.Views, s.Likes, s.Comments, e.TipsReceived)
	}
	slices.Sort(lines)

	h := sha3.New256()
	_, _ = h.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

func nullCount(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func countOf(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	capturedAtLayout,      // format written by Save
	"2006-01-02 15:04:05", // SQLite default datetime format
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

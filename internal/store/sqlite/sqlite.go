package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/moodsync-server/internal/store"
)

//go:embed schema.sql
var schema string

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, Migrate)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests that need extra fixtures on top of the schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the tables if they do not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Kind reports the backend name.
func (s *SQLiteStore) Kind() string { return "sqlite" }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser inserts a user. A duplicate email yields store.ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *store.User) error {
	prefs, err := marshalJSON(u.Preferences, "{}")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	query := `
		INSERT INTO users (id, full_name, email, age, gender, password_hash, preferences, created_at, last_active, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		u.ID,
		u.FullName,
		u.Email,
		u.Age,
		u.Gender,
		u.PasswordHash,
		prefs,
		u.CreatedAt.UTC(),
		u.LastActive.UTC(),
		u.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %s: %w", u.Email, store.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, full_name, email, age, gender, password_hash, preferences, created_at, last_active, is_active`

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// TouchUser updates last_active.
func (s *SQLiteStore) TouchUser(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET last_active = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("update last_active: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// ListUsers returns all users, oldest first.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*store.User, error) {
	var (
		user   store.User
		age    sql.NullInt64
		gender sql.NullString
		prefs  string
	)
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&age,
		&gender,
		&user.PasswordHash,
		&prefs,
		&user.CreatedAt,
		&user.LastActive,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	if gender.Valid {
		user.Gender = &gender.String
	}
	if err := json.Unmarshal([]byte(prefs), &user.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &user, nil
}

// ==== MoodStore implementation ====

// SaveMood persists a mood entry.
func (s *SQLiteStore) SaveMood(ctx context.Context, entry *store.MoodEntry) error {
	tags, err := marshalJSON(entry.Tags, "[]")
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	query := `
		INSERT INTO mood_entries (id, user_id, mood, scale, notes, tags, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.Scale,
		entry.Notes,
		tags,
		entry.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert mood entry: %w", err)
	}
	return nil
}

// ListMoods returns a page of a user's entries, newest first.
func (s *SQLiteStore) ListMoods(ctx context.Context, userID string, limit, offset int) ([]*store.MoodEntry, error) {
	query := `
		SELECT id, user_id, mood, scale, notes, tags, timestamp
		FROM mood_entries
		WHERE user_id = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query mood entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*store.MoodEntry, 0)
	for rows.Next() {
		var (
			entry store.MoodEntry
			tags  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Mood,
			&entry.Scale,
			&entry.Notes,
			&tags,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return entries, nil
}

// ==== ConversationStore implementation ====

// SaveConversation persists a conversation log entry.
func (s *SQLiteStore) SaveConversation(ctx context.Context, conv *store.Conversation) error {
	convCtx, err := marshalJSON(conv.Context, "{}")
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	query := `
		INSERT INTO conversations (id, user_id, session_id, user_message, ai_response, type, context, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		conv.ID,
		conv.UserID,
		conv.SessionID,
		conv.UserMessage,
		conv.AIResponse,
		string(conv.Type),
		convCtx,
		conv.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func marshalJSON(v any, empty string) (string, error) {
	switch t := v.(type) {
	case nil:
		return empty, nil
	case map[string]any:
		if t == nil {
			return empty, nil
		}
	case []string:
		if t == nil {
			return empty, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

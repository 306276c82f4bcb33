package monthversary

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested slide does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for slides
// and the settings singleton.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately;
	// synchronous=NORMAL is safe with WAL and avoids an fsync per
	// transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS slides (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    subtitle TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    background_color TEXT NOT NULL DEFAULT 'gradient-1',
    position INTEGER NOT NULL DEFAULT 0,
    is_published INTEGER NOT NULL DEFAULT 0,
    stats TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_slides_position ON slides(position);
CREATE INDEX IF NOT EXISTS idx_slides_published ON slides(is_published, position);
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    site_title TEXT NOT NULL,
    music_enabled INTEGER NOT NULL DEFAULT 0,
    music_url TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

const slideColumns = `id, type, title, subtitle, content, image_url, background_color, position, is_published, stats, created_at, updated_at`

func scanSlide(row interface{ Scan(...any) error }) (Slide, error) {
	var sl Slide
	var statsJSON, createdAt, updatedAt string
	var published int
	err := row.Scan(&sl.ID, &sl.Type, &sl.Title, &sl.Subtitle, &sl.Content,
		&sl.ImageURL, &sl.BackgroundColor, &sl.Order, &published, &statsJSON,
		&createdAt, &updatedAt)
	if err != nil {
		return Slide{}, err
	}
	sl.IsPublished = published == 1
	if err := json.Unmarshal([]byte(statsJSON), &sl.Stats); err != nil {
		return Slide{}, fmt.Errorf("decode stats for slide %s: %w", sl.ID, err)
	}
	sl.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	sl.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return sl, nil
}

func (s *Store) querySlides(query string, args ...any) ([]Slide, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slides := []Slide{}
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

// ListSlides returns every slide ordered by position ascending (editor view).
func (s *Store) ListSlides() ([]Slide, error) {
	return s.querySlides(`SELECT ` + slideColumns + ` FROM slides ORDER BY position ASC`)
}

// ListPublishedSlides returns published slides ordered by position ascending
// (viewer view).
func (s *Store) ListPublishedSlides() ([]Slide, error) {
	return s.querySlides(`SELECT ` + slideColumns + ` FROM slides WHERE is_published = 1 ORDER BY position ASC`)
}

// GetSlide returns a single slide by id regardless of published status.
func (s *Store) GetSlide(id string) (Slide, error) {
	row := s.db.QueryRow(`SELECT `+slideColumns+` FROM slides WHERE id = ?`, id)
	return scanSlide(row)
}

// CreateSlide inserts a new slide. The id, order and timestamps are assigned
// here: order becomes max existing order + 1 (0 for an empty store).
func (s *Store) CreateSlide(sl Slide) (Slide, error) {
	if !ValidSlideType(sl.Type) {
		return Slide{}, fmt.Errorf("invalid slide type %q", sl.Type)
	}
	if sl.BackgroundColor == "" {
		sl.BackgroundColor = DefaultBackground
	}
	if sl.Stats == nil {
		sl.Stats = []Stat{}
	}
	statsJSON, err := json.Marshal(sl.Stats)
	if err != nil {
		return Slide{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Slide{}, err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM slides`).Scan(&next); err != nil {
		return Slide{}, err
	}

	sl.ID = uuid.NewString()
	sl.Order = next
	now := time.Now().UTC()
	sl.CreatedAt = now
	sl.UpdatedAt = now

	published := 0
	if sl.IsPublished {
		published = 1
	}
	_, err = tx.Exec(`INSERT INTO slides (`+slideColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sl.ID, sl.Type, sl.Title, sl.Subtitle, sl.Content, sl.ImageURL,
		sl.BackgroundColor, sl.Order, published, string(statsJSON),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return Slide{}, err
	}
	return sl, tx.Commit()
}

// UpdateSlide applies a partial update to the slide with the given id and
// touches its update timestamp. Returns ErrNotFound for an unknown id.
func (s *Store) UpdateSlide(id string, patch SlidePatch) (Slide, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Slide{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+slideColumns+` FROM slides WHERE id = ?`, id)
	sl, err := scanSlide(row)
	if err != nil {
		return Slide{}, err
	}

	if patch.Type != nil {
		if !ValidSlideType(*patch.Type) {
			return Slide{}, fmt.Errorf("invalid slide type %q", *patch.Type)
		}
		sl.Type = *patch.Type
	}
	if patch.Title != nil {
		sl.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		sl.Subtitle = *patch.Subtitle
	}
	if patch.Content != nil {
		sl.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		sl.ImageURL = *patch.ImageURL
	}
	if patch.BackgroundColor != nil {
		sl.BackgroundColor = *patch.BackgroundColor
	}
	if patch.Order != nil {
		sl.Order = *patch.Order
	}
	if patch.IsPublished != nil {
		sl.IsPublished = *patch.IsPublished
	}
	if patch.Stats != nil {
		sl.Stats = *patch.Stats
	}
	if sl.Stats == nil {
		sl.Stats = []Stat{}
	}
	sl.UpdatedAt = time.Now().UTC()

	statsJSON, err := json.Marshal(sl.Stats)
	if err != nil {
		return Slide{}, err
	}
	published := 0
	if sl.IsPublished {
		published = 1
	}
	_, err = tx.Exec(`UPDATE slides SET type = ?, title = ?, subtitle = ?, content = ?, image_url = ?, background_color = ?, position = ?, is_published = ?, stats = ?, updated_at = ? WHERE id = ?`,
		sl.Type, sl.Title, sl.Subtitle, sl.Content, sl.ImageURL,
		sl.BackgroundColor, sl.Order, published, string(statsJSON),
		sl.UpdatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return Slide{}, err
	}
	return sl, tx.Commit()
}

// DeleteSlide removes a slide permanently. Order values of the remaining
// slides are left as-is; gaps are not backfilled.
func (s *Store) DeleteSlide(id string) error {
	res, err := s.db.Exec(`DELETE FROM slides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderSlides assigns each listed slide an order equal to its positional
// index in ids. The whole rewrite runs in one transaction, so callers never
// observe a half-reordered deck. Unknown ids are skipped.
func (s *Store) ReorderSlides(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE slides SET position = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, id := range ids {
		if _, err := stmt.Exec(i, now, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetAllPublished sets isPublished on every slide in one statement.
func (s *Store) SetAllPublished(published bool) error {
	val := 0
	if published {
		val = 1
	}
	_, err := s.db.Exec(`UPDATE slides SET is_published = ?, updated_at = ?`,
		val, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// GetSettings returns the settings singleton, lazily creating it with
// defaults on first read. Idempotent: a second call never creates another
// record.
func (s *Store) GetSettings() (Settings, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.Exec(`INSERT INTO settings (id, site_title, music_enabled, music_url, created_at, updated_at)
		VALUES (1, ?, 0, '', ?, ?) ON CONFLICT(id) DO NOTHING`,
		DefaultSiteTitle, now, now); err != nil {
		return Settings{}, err
	}
	return s.readSettings()
}

func (s *Store) readSettings() (Settings, error) {
	var st Settings
	var enabled int
	var createdAt, updatedAt string
	err := s.db.QueryRow(`SELECT site_title, music_enabled, music_url, created_at, updated_at FROM settings WHERE id = 1`).
		Scan(&st.SiteTitle, &enabled, &st.BackgroundMusicURL, &createdAt, &updatedAt)
	if err != nil {
		return Settings{}, err
	}
	st.BackgroundMusicEnabled = enabled == 1
	st.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return st, nil
}

// UpdateSettings merges the non-nil patch fields into the singleton,
// creating it first when absent, and persists the result.
func (s *Store) UpdateSettings(patch SettingsPatch) (Settings, error) {
	st, err := s.GetSettings()
	if err != nil {
		return Settings{}, err
	}
	if patch.SiteTitle != nil {
		st.SiteTitle = *patch.SiteTitle
	}
	if patch.BackgroundMusicEnabled != nil {
		st.BackgroundMusicEnabled = *patch.BackgroundMusicEnabled
	}
	if patch.BackgroundMusicURL != nil {
		st.BackgroundMusicURL = *patch.BackgroundMusicURL
	}
	st.UpdatedAt = time.Now().UTC()

	enabled := 0
	if st.BackgroundMusicEnabled {
		enabled = 1
	}
	_, err = s.db.Exec(`UPDATE settings SET site_title = ?, music_enabled = ?, music_url = ?, updated_at = ? WHERE id = 1`,
		st.SiteTitle, enabled, st.BackgroundMusicURL, st.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Settings{}, err
	}
	return st, nil
}

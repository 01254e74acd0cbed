package folio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist. It
// is a valid outcome for single-record reads, distinct from transport
// or query failures.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides typed CRUD for the four
// content kinds plus uploaded image metadata. It owns identifier and
// timestamp assignment and applies the publish stamping rule before
// persisting; callers supply full payloads, not partial patches.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe
	// under WAL and skips an fsync per transaction.
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
CREATE TABLE IF NOT EXISTS profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    tagline TEXT NOT NULL,
    bio TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS experience (
    id TEXT PRIMARY KEY,
    company TEXT NOT NULL,
    role TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'draft',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    cover_image_url TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    published_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// --- profile ---

// GetProfile returns the singleton profile, or ErrNotFound before the
// first save.
func (s *Store) GetProfile() (Profile, error) {
	var p Profile
	var updated string
	err := s.db.QueryRow(`SELECT name, tagline, bio, avatar_url, updated_at FROM profile WHERE id = 1`).
		Scan(&p.Name, &p.Tagline, &p.Bio, &p.AvatarURL, &updated)
	if err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// SaveProfile upserts the singleton profile. There is no delete.
func (s *Store) SaveProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("folio: profile name is required")
	}
	_, err := s.db.Exec(`INSERT INTO profile (id, name, tagline, bio, avatar_url, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, tagline=excluded.tagline,
			bio=excluded.bio, avatar_url=excluded.avatar_url, updated_at=excluded.updated_at`,
		p.Name, p.Tagline, p.Bio, p.AvatarURL, formatTime(time.Now()))
	return err
}

// --- experience ---

const experienceCols = `id, company, role, start_date, end_date, description, tags, display_order, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (Experience, error) {
	var e Experience
	var tags, created, updated string
	err := row.Scan(&e.ID, &e.Company, &e.Role, &e.StartDate, &e.EndDate,
		&e.Description, &tags, &e.DisplayOrder, &created, &updated)
	if err != nil {
		return Experience{}, err
	}
	e.Tags = ParseTags(tags)
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

// ListExperience returns all entries in ascending display order.
func (s *Store) ListExperience() ([]Experience, error) {
	rows, err := s.db.Query(`SELECT ` + experienceCols + ` FROM experience ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetExperience returns one entry by id.
func (s *Store) GetExperience(id string) (Experience, error) {
	return scanExperience(s.db.QueryRow(`SELECT `+experienceCols+` FROM experience WHERE id = ?`, id))
}

// CreateExperience inserts a new entry, assigning its id and
// timestamps, and returns the stored record.
func (s *Store) CreateExperience(e Experience) (Experience, error) {
	e.ID = uuid.NewString()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := s.db.Exec(`INSERT INTO experience (`+experienceCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Company, e.Role, e.StartDate, e.EndDate, e.Description,
		EncodeTags(e.Tags), e.DisplayOrder, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return Experience{}, err
	}
	return e, nil
}

// UpdateExperience replaces the full payload of an existing entry.
func (s *Store) UpdateExperience(id string, e Experience) error {
	res, err := s.db.Exec(`UPDATE experience SET company=?, role=?, start_date=?, end_date=?,
		description=?, tags=?, display_order=?, updated_at=? WHERE id=?`,
		e.Company, e.Role, e.StartDate, e.EndDate, e.Description,
		EncodeTags(e.Tags), e.DisplayOrder, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteExperience removes an entry. Remaining display_order values
// are left untouched; gaps are expected.
func (s *Store) DeleteExperience(id string) error {
	_, err := s.db.Exec(`DELETE FROM experience WHERE id = ?`, id)
	return err
}

// CountExperience returns the number of entries, used to seed the
// display_order of a newly created one.
func (s *Store) CountExperience() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM experience`).Scan(&n)
	return n, err
}

// --- projects ---

const projectCols = `id, title, description, url, image_url, tags, display_order, status, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	var tags, status, created, updated string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.URL, &p.ImageURL,
		&tags, &p.DisplayOrder, &status, &created, &updated)
	if err != nil {
		return Project{}, err
	}
	p.Tags = ParseTags(tags)
	p.Status = Status(status)
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// ListProjects returns projects in ascending display order. With
// publishedOnly set, drafts are excluded (the public surface).
func (s *Store) ListProjects(publishedOnly bool) ([]Project, error) {
	q := `SELECT ` + projectCols + ` FROM projects ORDER BY display_order ASC`
	if publishedOnly {
		q = `SELECT ` + projectCols + ` FROM projects WHERE status = 'published' ORDER BY display_order ASC`
	}
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject returns one project by id.
func (s *Store) GetProject(id string) (Project, error) {
	return scanProject(s.db.QueryRow(`SELECT `+projectCols+` FROM projects WHERE id = ?`, id))
}

// CreateProject inserts a new project as supplied, assigning its id
// and timestamps. New projects default to draft when no status is set.
func (s *Store) CreateProject(p Project) (Project, error) {
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		return Project{}, fmt.Errorf("folio: invalid status %q", p.Status)
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Exec(`INSERT INTO projects (`+projectCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.URL, p.ImageURL, EncodeTags(p.Tags),
		p.DisplayOrder, string(p.Status), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// UpdateProject replaces the full payload of an existing project.
func (s *Store) UpdateProject(id string, p Project) error {
	if !p.Status.Valid() {
		return fmt.Errorf("folio: invalid status %q", p.Status)
	}
	res, err := s.db.Exec(`UPDATE projects SET title=?, description=?, url=?, image_url=?,
		tags=?, display_order=?, status=?, updated_at=? WHERE id=?`,
		p.Title, p.Description, p.URL, p.ImageURL, EncodeTags(p.Tags),
		p.DisplayOrder, string(p.Status), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteProject removes a project without renumbering the rest.
func (s *Store) DeleteProject(id string) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	return err
}

// CountProjects returns the number of projects.
func (s *Store) CountProjects() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

// ToggleProjectStatus flips a project between draft and published and
// returns the updated record.
func (s *Store) ToggleProjectStatus(id string) (Project, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return Project{}, err
	}
	p.Status = ToggleStatus(p.Status)
	if err := s.UpdateProject(id, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// --- posts ---

const postCols = `id, title, slug, content, excerpt, cover_image_url, tags, status, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var tags, status, created, updated string
	var published sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImageURL,
		&tags, &status, &published, &created, &updated)
	if err != nil {
		return Post{}, err
	}
	p.Tags = ParseTags(tags)
	p.Status = Status(status)
	if published.Valid && published.String != "" {
		t := parseTime(published.String)
		p.PublishedAt = &t
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func (s *Store) queryPosts(q string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPublishedPosts returns published posts, newest publication first.
func (s *Store) ListPublishedPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postCols + ` FROM posts WHERE status = 'published' ORDER BY published_at DESC`)
}

// ListAllPosts returns every post for the admin list, newest first by
// creation time so drafts sort predictably.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postCols + ` FROM posts ORDER BY created_at DESC`)
}

// GetPost returns one post by id regardless of status.
func (s *Store) GetPost(id string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postCols+` FROM posts WHERE id = ?`, id))
}

// GetPublishedPostBySlug returns a published post by slug. Drafts are
// invisible on this path.
func (s *Store) GetPublishedPostBySlug(slug string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postCols+` FROM posts WHERE slug = ? AND status = 'published'`, slug))
}

// CreatePost inserts a new post, assigning id and timestamps and
// applying the publish stamping rule. A duplicate slug surfaces as the
// database's unique-constraint error.
func (s *Store) CreatePost(p Post) (Post, error) {
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if err := validatePost(p); err != nil {
		return Post{}, err
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.PublishedAt = stampPublished(p.Status, p.PublishedAt, now)
	_, err := s.db.Exec(`INSERT INTO posts (`+postCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImageURL, EncodeTags(p.Tags),
		string(p.Status), nullableTime(p.PublishedAt), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// UpdatePost replaces the full payload of an existing post, applying
// the publish stamping rule to the submitted status.
func (s *Store) UpdatePost(id string, p Post) error {
	if err := validatePost(p); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.PublishedAt = stampPublished(p.Status, p.PublishedAt, now)
	res, err := s.db.Exec(`UPDATE posts SET title=?, slug=?, content=?, excerpt=?, cover_image_url=?,
		tags=?, status=?, published_at=?, updated_at=? WHERE id=?`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImageURL, EncodeTags(p.Tags),
		string(p.Status), nullableTime(p.PublishedAt), formatTime(now), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// TogglePostStatus flips a post between draft and published through
// the same stamping rule as the editor form, and returns the updated
// record.
func (s *Store) TogglePostStatus(id string) (Post, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return Post{}, err
	}
	p.Status = ToggleStatus(p.Status)
	if err := s.UpdatePost(id, p); err != nil {
		return Post{}, err
	}
	// Re-read so the caller observes the stamp the update applied.
	return s.GetPost(id)
}

func validatePost(p Post) error {
	if !p.Status.Valid() {
		return fmt.Errorf("folio: invalid status %q", p.Status)
	}
	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("folio: post slug is required")
	}
	return nil
}

// --- images ---

// ListImages returns uploaded image metadata, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Image
	for rows.Next() {
		var img Image
		var uploaded string
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &uploaded); err != nil {
			return nil, err
		}
		img.UploadedAt = parseTime(uploaded)
		out = append(out, img)
	}
	return out, rows.Err()
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, formatTime(img.UploadedAt))
	return err
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// --- helpers ---

// EncodeTags serializes tags as a comma-delimited string with sentinel
// commas (",go,web,") so single-tag matches cannot hit substrings.
// Order and case are preserved; empty entries are dropped.
func EncodeTags(tags []string) string {
	var kept []string
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return ","
	}
	return "," + strings.Join(kept, ",") + ","
}

// ParseTags splits a comma-delimited tag string back into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// timeLayout is RFC3339 with fixed-width nanoseconds so the TEXT
// columns sort chronologically under SQLite's byte ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

package folio

import "time"

// Status is the two-state publication lifecycle for projects and posts.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Profile is the site owner's intro section. At most one row exists,
// and it has no draft state: once saved it is live.
type Profile struct {
	Name      string
	Tagline   string
	Bio       string // markdown
	AvatarURL string // optional
	UpdatedAt time.Time
}

// Experience is one entry on the experience timeline.
type Experience struct {
	ID           string
	Company      string
	Role         string
	StartDate    string // YYYY-MM-DD
	EndDate      string // empty means ongoing
	Description  string // markdown
	Tags         []string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project is a portfolio project card.
type Project struct {
	ID           string
	Title        string
	Description  string // markdown
	URL          string // optional external link
	ImageURL     string // optional
	Tags         []string
	DisplayOrder int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Post is a blog post. Slug is unique across all posts. PublishedAt is
// stamped on the first transition to published and survives later
// unpublish/republish cycles.
type Post struct {
	ID            string
	Title         string
	Slug          string
	Content       string // markdown
	Excerpt       string
	CoverImageURL string // optional
	Tags          []string
	Status        Status
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Image is metadata for an uploaded asset served from the uploads dir.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   time.Time
}

// PublicURL returns the path the image is served from.
func (i Image) PublicURL() string {
	return "/public/uploads/" + i.Filename
}

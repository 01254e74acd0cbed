package folio

import (
	"errors"
	"sync"
	"time"
)

// ContentCache is an in-memory TTL snapshot of everything the public
// surface renders: the profile, the experience timeline, published
// projects, and published posts. Admin writes invalidate it so the
// next public read reloads. Drafts never enter the snapshot.
type ContentCache struct {
	mu       sync.RWMutex
	profile  *Profile
	exps     []Experience
	projects []Project
	posts    []Post
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return !c.fetched.IsZero() && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the snapshot so the next read triggers a reload.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.fetched = time.Time{}
	c.profile = nil
	c.exps = nil
	c.projects = nil
	c.posts = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	profile, err := c.store.GetProfile()
	switch {
	case err == nil:
		c.profile = &profile
	case errors.Is(err, ErrNotFound):
		c.profile = nil // site not set up yet, still renderable
	default:
		return err
	}
	exps, err := c.store.ListExperience()
	if err != nil {
		return err
	}
	projects, err := c.store.ListProjects(true)
	if err != nil {
		return err
	}
	posts, err := c.store.ListPublishedPosts()
	if err != nil {
		return err
	}
	c.exps = exps
	c.projects = projects
	c.posts = posts
	c.fetched = time.Now()
	return nil
}

// ensureLoaded refreshes the snapshot if stale. It tries a read lock
// first and only takes the write lock when a reload is needed.
func (c *ContentCache) ensureLoaded() error {
	c.mu.RLock()
	if c.valid() {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return nil
	}
	return c.load()
}

// Profile returns the profile, or nil if none has been saved.
func (c *ContentCache) Profile() (*Profile, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile, nil
}

// Experience returns the experience timeline in display order.
func (c *ContentCache) Experience() ([]Experience, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exps, nil
}

// Projects returns published projects in display order.
func (c *ContentCache) Projects() ([]Project, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projects, nil
}

// Posts returns published posts, newest publication first.
func (c *ContentCache) Posts() ([]Post, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.posts, nil
}

// Post returns a single published post by slug from the snapshot.
func (c *ContentCache) Post(slug string) (Post, error) {
	posts, err := c.Posts()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

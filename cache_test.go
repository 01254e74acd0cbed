package folio

import (
	"testing"
	"time"
)

func TestCacheServesOnlyPublishedContent(t *testing.T) {
	s := setupTestStore(t)
	c := NewContentCache(s, time.Minute)

	if _, err := s.CreateProject(Project{Title: "Live", Status: StatusPublished}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := s.CreateProject(Project{Title: "Secret", DisplayOrder: 1}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := s.CreatePost(Post{Title: "Hidden", Slug: "hidden"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	projects, err := c.Projects()
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Live" {
		t.Errorf("cache leaked a draft project: %v", projects)
	}
	if _, err := c.Post("hidden"); err != ErrNotFound {
		t.Errorf("draft post reachable through cache: err = %v", err)
	}

	// No profile yet is a renderable state, not an error.
	profile, err := c.Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile != nil {
		t.Errorf("Profile = %v, want nil before first save", profile)
	}
}

func TestCacheInvalidateReloads(t *testing.T) {
	s := setupTestStore(t)
	c := NewContentCache(s, time.Hour)

	posts, err := c.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty snapshot, got %d posts", len(posts))
	}

	if _, err := s.CreatePost(Post{Title: "New", Slug: "new", Status: StatusPublished}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Still within TTL: the stale snapshot is served until invalidated.
	posts, err = c.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("snapshot reloaded before invalidation")
	}

	c.Invalidate()
	posts, err = c.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "new" {
		t.Errorf("snapshot not reloaded after Invalidate: %v", posts)
	}
}

package folio

import "strings"

// Slugify converts free text to a URL-safe slug: lowercase, every run
// of characters outside [a-z0-9] collapsed to a single hyphen, and no
// leading or trailing hyphen. It is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// SlugField tracks the slug input of a single post editing session.
// It starts in auto mode, recomputing the slug from the title on every
// title edit. The first direct edit of the slug switches the field to
// manual for the rest of the session; title edits then leave the slug
// alone. The mode is never persisted.
type SlugField struct {
	slug   string
	manual bool
}

// NewSlugField starts an editing session. Editing an existing post
// starts in manual mode with its stored slug, matching a session where
// the slug was chosen deliberately.
func NewSlugField(existing string) *SlugField {
	return &SlugField{slug: existing, manual: existing != ""}
}

// SetTitle records a title edit. In auto mode the slug is recomputed.
func (f *SlugField) SetTitle(title string) {
	if !f.manual {
		f.slug = Slugify(title)
	}
}

// SetSlug records a direct slug edit and permanently switches the
// session to manual mode.
func (f *SlugField) SetSlug(slug string) {
	f.manual = true
	f.slug = slug
}

// Slug returns the current slug value.
func (f *SlugField) Slug() string { return f.slug }

// Manual reports whether the session has left auto mode.
func (f *SlugField) Manual() bool { return f.manual }

package folio

import "time"

// stampPublished applies the publication timestamp rule shared by the
// full editor form and the quick status toggle: the first transition
// to published stamps now, a re-publish keeps the original stamp, and
// unpublishing never clears it.
func stampPublished(status Status, prev *time.Time, now time.Time) *time.Time {
	if status == StatusPublished && prev == nil {
		t := now.UTC()
		return &t
	}
	return prev
}

// ToggleStatus returns the opposite publication state.
func ToggleStatus(s Status) Status {
	if s == StatusPublished {
		return StatusDraft
	}
	return StatusPublished
}

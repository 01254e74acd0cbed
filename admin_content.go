package folio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// --- profile ---

func (a *App) handleAdminProfile(c echo.Context) error {
	profile, err := a.Store.GetProfile()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Render(c, a.Views.AdminProfile(nil, c.QueryParam("msg"), CsrfToken(c)))
		}
		return err
	}
	return Render(c, a.Views.AdminProfile(&profile, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminProfileSave(c echo.Context) error {
	draft := Profile{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Tagline:   c.FormValue("tagline"),
		Bio:       c.FormValue("bio"),
		AvatarURL: strings.TrimSpace(c.FormValue("avatar_url")),
	}
	if err := a.Store.SaveProfile(draft); err != nil {
		return Render(c, a.Views.AdminProfile(&draft, err.Error(), CsrfToken(c)))
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/profile/?msg=saved")
}

// --- experience ---

func (a *App) handleAdminExperience(c echo.Context) error {
	entries, err := a.Store.ListExperience()
	if err != nil {
		return err
	}
	var editing *Experience
	if c.QueryParam("new") != "" {
		// New entries slot in at the end of the current list.
		count, err := a.Store.CountExperience()
		if err != nil {
			return err
		}
		editing = &Experience{DisplayOrder: count}
	}
	return Render(c, a.Views.AdminExperience(entries, editing, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminExperienceEdit(c echo.Context) error {
	entry, err := a.Store.GetExperience(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	entries, err := a.Store.ListExperience()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminExperience(entries, &entry, "", CsrfToken(c)))
}

func (a *App) handleAdminExperienceSave(c echo.Context) error {
	id := c.FormValue("id")
	draft := Experience{
		ID:          id,
		Company:     strings.TrimSpace(c.FormValue("company")),
		Role:        strings.TrimSpace(c.FormValue("role")),
		StartDate:   strings.TrimSpace(c.FormValue("start_date")),
		EndDate:     strings.TrimSpace(c.FormValue("end_date")),
		Description: c.FormValue("description"),
		Tags:        splitTags(c.FormValue("tags")),
	}
	var err error
	draft.DisplayOrder, err = a.formDisplayOrder(c, id, a.Store.CountExperience)
	if err != nil {
		return err
	}

	if id == "" {
		_, err = a.Store.CreateExperience(draft)
	} else {
		err = a.Store.UpdateExperience(id, draft)
	}
	if err != nil {
		// Leave the draft open for correction.
		entries, lerr := a.Store.ListExperience()
		if lerr != nil {
			return lerr
		}
		return Render(c, a.Views.AdminExperience(entries, &draft, err.Error(), CsrfToken(c)))
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/experience/?msg=saved")
}

func (a *App) handleAdminExperienceDelete(c echo.Context) error {
	if !confirmed(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/experience/")
	}
	if err := a.Store.DeleteExperience(c.Param("id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/experience/?msg=deleted")
}

// --- projects ---

func (a *App) handleAdminProjects(c echo.Context) error {
	projects, err := a.Store.ListProjects(false)
	if err != nil {
		return err
	}
	var editing *Project
	if c.QueryParam("new") != "" {
		count, err := a.Store.CountProjects()
		if err != nil {
			return err
		}
		editing = &Project{DisplayOrder: count, Status: StatusDraft}
	}
	return Render(c, a.Views.AdminProjects(projects, editing, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminProjectEdit(c echo.Context) error {
	project, err := a.Store.GetProject(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	projects, err := a.Store.ListProjects(false)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminProjects(projects, &project, "", CsrfToken(c)))
}

func (a *App) handleAdminProjectSave(c echo.Context) error {
	id := c.FormValue("id")
	status := Status(c.FormValue("status"))
	if status == "" {
		status = StatusDraft
	}
	draft := Project{
		ID:          id,
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: c.FormValue("description"),
		URL:         strings.TrimSpace(c.FormValue("url")),
		ImageURL:    strings.TrimSpace(c.FormValue("image_url")),
		Tags:        splitTags(c.FormValue("tags")),
		Status:      status,
	}
	var err error
	draft.DisplayOrder, err = a.formDisplayOrder(c, id, a.Store.CountProjects)
	if err != nil {
		return err
	}

	if id == "" {
		_, err = a.Store.CreateProject(draft)
	} else {
		err = a.Store.UpdateProject(id, draft)
	}
	if err != nil {
		projects, lerr := a.Store.ListProjects(false)
		if lerr != nil {
			return lerr
		}
		return Render(c, a.Views.AdminProjects(projects, &draft, err.Error(), CsrfToken(c)))
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/projects/?msg=saved")
}

func (a *App) handleAdminProjectDelete(c echo.Context) error {
	if !confirmed(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/projects/")
	}
	if err := a.Store.DeleteProject(c.Param("id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/projects/?msg=deleted")
}

func (a *App) handleAdminProjectToggle(c echo.Context) error {
	if _, err := a.Store.ToggleProjectStatus(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/projects/")
}

// --- shared form helpers ---

// formDisplayOrder reads the display_order field. A new record with no
// value defaults to the current item count; existing records keep
// whatever the form submitted.
func (a *App) formDisplayOrder(c echo.Context, id string, count func() (int, error)) (int, error) {
	raw := strings.TrimSpace(c.FormValue("display_order"))
	if raw == "" && id == "" {
		return count()
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// splitTags parses a comma-separated tag input, preserving the order
// entered and dropping empties.
func splitTags(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

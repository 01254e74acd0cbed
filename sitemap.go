package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	urls := []sitemapURL{
		{Loc: BuildURL(a.Config.URL)},
		{Loc: BuildURL(a.Config.URL, "blog")},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(a.Config.URL, "blog", p.Slug)}
		if !p.UpdatedAt.IsZero() {
			u.LastMod = p.UpdatedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

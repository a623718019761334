package controller

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type SitemapController struct {
	directoryService service.DirectoryService
	baseURL          string
}

func NewSitemapController(directoryService service.DirectoryService, baseURL string) *SitemapController {
	return &SitemapController{directoryService: directoryService, baseURL: baseURL}
}

// GetSitemap lists the homepage and one page per verified business.
func (ctrl *SitemapController) GetSitemap(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	entries, err := ctrl.directoryService.SitemapEntries()
	if err != nil {
		log.Error("Failed to build sitemap", err)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	set := sitemapURLSet{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{{
			Loc:        ctrl.baseURL + "/",
			ChangeFreq: "daily",
			Priority:   "1.0",
		}},
	}
	for _, entry := range entries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        ctrl.baseURL + "/business/" + entry.Slug,
			LastMod:    entry.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		log.Error("Failed to encode sitemap", err)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

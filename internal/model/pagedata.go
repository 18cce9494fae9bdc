package model

import (
	"net/http"

	"github.com/inkfold/inkfold/internal/config"
)

type PageData struct {
	SiteName    string
	SiteTagline string

	PageURL string
}

func NewPageData(r *http.Request) *PageData {
	return &PageData{
		SiteName:    config.AppConfig.Site.Name,
		SiteTagline: config.AppConfig.Site.Tagline,
		PageURL:     r.URL.Path,
	}
}

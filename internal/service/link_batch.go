// internal/service/link_batch.go
package service

import (
	"github.com/unclebandit/walink-backend/internal/metrics"
	"github.com/unclebandit/walink-backend/internal/model"
)

// Link is one ready-to-open deep link for a recipient.
type Link struct {
	Contact model.Contact `json:"contact"`
	Message string        `json:"message"`
	URL     string        `json:"url"`
}

// GenerateBatch renders tmpl for each recipient, in recipient order. Nothing is cached or
// persisted; every call renders afresh.
func (r *Renderer) GenerateBatch(tmpl model.Template, recipients []model.Contact) []Link {
	links := make([]Link, 0, len(recipients))
	for _, c := range recipients {
		text := Render(tmpl.Body, r.BindingsFor(c))
		links = append(links, Link{
			Contact: c,
			Message: text,
			URL:     r.BuildDeepLink(c.Phone, text),
		})
	}
	metrics.LinksGenerated.WithLabelValues("batch").Add(float64(len(links)))
	return links
}

// internal/service/renderer.go
package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/unclebandit/walink-backend/internal/config"
	"github.com/unclebandit/walink-backend/internal/model"
)

// Placeholder tokens recognised in template bodies.
const (
	TokenName    = "{{nombre}}"
	TokenService = "{{servicio}}"
	TokenDate    = "{{fecha}}"
	TokenPrice   = "{{precio}}"
)

// Bindings are the values substituted for each token.
type Bindings struct {
	Name    string
	Service string
	Date    string
	Price   string
}

// Render substitutes every recognised token in body. Unknown tokens are left verbatim.
// A single pass is made, so values that themselves look like tokens are not expanded.
func Render(body string, b Bindings) string {
	r := strings.NewReplacer(
		TokenName, b.Name,
		TokenService, b.Service,
		TokenDate, b.Date,
		TokenPrice, b.Price,
	)
	return r.Replace(body)
}

// Renderer binds templates to contacts and builds wa.me deep links.
type Renderer struct {
	DeepLinkBase   string
	DateLayout     string
	ServicePhrase  string
	Price          string
	PreviewName    string
	PreviewService string
	Now            func() time.Time
}

func NewRenderer(rc config.RendererConfig, mc config.MessagingConfig) *Renderer {
	return &Renderer{
		DeepLinkBase:   mc.DeepLinkBase,
		DateLayout:     rc.DateLayout,
		ServicePhrase:  rc.ServicePhrase,
		Price:          rc.Price,
		PreviewName:    rc.PreviewName,
		PreviewService: rc.PreviewService,
		Now:            time.Now,
	}
}

func (r *Renderer) today() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().Format(r.DateLayout)
}

// BindingsFor returns the bindings for a real recipient. The date is taken at call time.
func (r *Renderer) BindingsFor(c model.Contact) Bindings {
	return Bindings{
		Name:    c.Name,
		Service: r.ServicePhrase,
		Date:    r.today(),
		Price:   r.Price,
	}
}

// PreviewBindings returns the example values used by previews and test messages.
func (r *Renderer) PreviewBindings() Bindings {
	return Bindings{
		Name:    r.PreviewName,
		Service: r.PreviewService,
		Date:    r.today(),
		Price:   r.Price,
	}
}

// BuildDeepLink returns <base><phone>?text=<encoded>. An empty phone produces a generic
// compose link with no recipient segment.
func (r *Renderer) BuildDeepLink(phone, text string) string {
	base := r.DeepLinkBase
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + phone + "?text=" + encodeComponent(text)
}

// componentUnescaper undoes what QueryEscape escapes beyond a URI component's reserved set.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s the way a URI component is encoded: spaces become %20
// and ! ' ( ) * stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

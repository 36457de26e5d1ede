package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/service"
)

func TestRender_UnknownTokensVerbatim(t *testing.T) {
	r := newRenderer()
	got := service.Render("Hi {{nombre}}, {{unknown}}", r.BindingsFor(model.Contact{Name: "Ana"}))
	assert.Equal(t, "Hi Ana, {{unknown}}", got)
}

func TestRender_AllTokensGlobal(t *testing.T) {
	r := newRenderer()
	body := "{{nombre}} {{nombre}} - {{servicio}} - {{fecha}} - {{precio}} {{Nombre}}"
	got := service.Render(body, r.BindingsFor(model.Contact{Name: "Ana"}))
	assert.Equal(t, "Ana Ana - nuestro servicio - 05/03/2026 - $99 {{Nombre}}", got)
}

func TestRender_DoesNotExpandValues(t *testing.T) {
	got := service.Render("Hola {{nombre}}", service.Bindings{Name: "{{precio}}", Price: "$99"})
	assert.Equal(t, "Hola {{precio}}", got)
}

func TestRender_Idempotent(t *testing.T) {
	r := newRenderer()
	tmpl := sampleTemplate()
	c := sampleContacts()[0]

	first := service.Render(tmpl.Body, r.BindingsFor(c))
	second := service.Render(tmpl.Body, r.BindingsFor(c))
	assert.Equal(t, first, second)
	assert.Equal(t, "Hola {{nombre}}, {{servicio}} a {{precio}}", tmpl.Body)
}

func TestRender_DateIsTakenAtRenderTime(t *testing.T) {
	r := newRenderer()
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Now = func() time.Time { return day }
	assert.Equal(t, "01/01/2026", service.Render("{{fecha}}", r.BindingsFor(model.Contact{})))

	day = day.AddDate(0, 0, 1)
	assert.Equal(t, "02/01/2026", service.Render("{{fecha}}", r.BindingsFor(model.Contact{})))
}

func TestPreviewBindings(t *testing.T) {
	r := newRenderer()
	got := service.Render(sampleTemplate().Body, r.PreviewBindings())
	assert.Equal(t, "Hola Cliente de Prueba, servicio de prueba a $99", got)
}

func TestBuildDeepLink(t *testing.T) {
	r := newRenderer()

	tests := []struct {
		phone string
		text  string
		want  string
	}{
		{"5491111111111", "Hola Ana", "https://wa.me/5491111111111?text=Hola%20Ana"},
		{"", "Hola Ana", "https://wa.me/?text=Hola%20Ana"},
		{"5491111111111", "a+b & c=d?", "https://wa.me/5491111111111?text=a%2Bb%20%26%20c%3Dd%3F"},
		{"5491111111111", "¡Hola (Ana)! It's *now* ~ya", "https://wa.me/5491111111111?text=%C2%A1Hola%20(Ana)!%20It's%20*now*%20~ya"},
		{"5491111111111", "100%21", "https://wa.me/5491111111111?text=100%2521"},
		{"5491111111111", "¡Promo!\n$99", "https://wa.me/5491111111111?text=%C2%A1Promo!%0A%2499"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.BuildDeepLink(tt.phone, tt.text))
	}
}

func TestBuildDeepLink_BaseWithoutSlash(t *testing.T) {
	r := newRenderer()
	r.DeepLinkBase = "https://api.whatsapp.com/send"
	assert.Equal(t, "https://api.whatsapp.com/send/1234?text=x", r.BuildDeepLink("1234", "x"))
}

func TestGenerateBatch_PreservesOrder(t *testing.T) {
	r := newRenderer()
	recipients := service.ResolveRecipients(model.SelectGroup, service.SelectionParams{Group: "vip"}, sampleContacts())

	links := r.GenerateBatch(sampleTemplate(), recipients)
	assert.Len(t, links, 2)
	assert.Equal(t, "1", links[0].Contact.ID)
	assert.Equal(t, "3", links[1].Contact.ID)
	assert.Equal(t, "Hola Carla, nuestro servicio a $99", links[1].Message)
	assert.Equal(t, "https://wa.me/5491133333333?text=Hola%20Carla%2C%20nuestro%20servicio%20a%20%2499", links[1].URL)

	assert.Empty(t, r.GenerateBatch(sampleTemplate(), nil))
}

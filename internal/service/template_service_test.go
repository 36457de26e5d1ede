package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/service"
)

func newTemplateService(t *testing.T, e *env) *service.TemplateService {
	return service.NewTemplateService(e.templates, e.sessions, newRenderer(), zaptest.NewLogger(t))
}

func TestSaveTemplate_EmptyBodyRejected(t *testing.T) {
	e := newEnv()
	svc := newTemplateService(t, e)

	_, err := svc.SaveTemplate(context.Background(), owner, service.CreateMode(), service.TemplateInput{Name: "x", Content: "   \n"})
	assert.ErrorIs(t, err, appErrors.ErrEmptyBody)

	list, _ := svc.ListTemplates(context.Background(), owner)
	assert.Len(t, list, 1)
}

func TestSaveTemplate_DefaultsCategory(t *testing.T) {
	e := newEnv()
	svc := newTemplateService(t, e)

	tmpl, err := svc.SaveTemplate(context.Background(), owner, service.CreateMode(), service.TemplateInput{Name: "Saludo", Content: "Hola {{nombre}}"})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryGeneral, tmpl.Category)

	list, err := svc.ListTemplates(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, list[0].ID)
}

func TestSaveTemplate_BodyStoredAsTyped(t *testing.T) {
	e := newEnv()
	svc := newTemplateService(t, e)
	body := "  Hola {{nombre}}\n\n- item\n"

	tmpl, err := svc.SaveTemplate(context.Background(), owner, service.CreateMode(), service.TemplateInput{Name: "Lista", Content: body})
	require.NoError(t, err)
	assert.Equal(t, body, tmpl.Body)

	list, err := svc.ListTemplates(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, body, list[0].Body)
}

func TestSaveTemplate_EditAndFreeFormCategory(t *testing.T) {
	e := newEnv()
	svc := newTemplateService(t, e)

	tmpl, err := svc.SaveTemplate(context.Background(), owner, service.EditMode("t1"), service.TemplateInput{
		Name: "Promo 2", Category: "black-friday", Content: "Oferta {{precio}}",
	})
	require.NoError(t, err)
	assert.Equal(t, "black-friday", tmpl.Category)
	assert.Equal(t, "black-friday", model.CategoryLabel(tmpl.Category))
}

func TestSaveTemplate_BackendFailure(t *testing.T) {
	e := newEnv()
	e.templates.fail = true
	svc := newTemplateService(t, e)

	_, err := svc.SaveTemplate(context.Background(), owner, service.CreateMode(), service.TemplateInput{Name: "x", Content: "y"})
	var be *appErrors.BackendError
	assert.ErrorAs(t, err, &be)
}

func TestPreviewTemplate(t *testing.T) {
	e := newEnv()
	svc := newTemplateService(t, e)

	p, err := svc.PreviewTemplate(context.Background(), owner, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Promoción", p.CategoryLabel)
	assert.Equal(t, "https://wa.me/?text=Hola%20%7B%7Bnombre%7D%7D%2C%20%7B%7Bservicio%7D%7D%20a%20%7B%7Bprecio%7D%7D", p.ComposeURL)
	assert.Equal(t, "Hola Cliente de Prueba, servicio de prueba a $99", p.Rendered)

	_, err = svc.PreviewTemplate(context.Background(), owner, "nope")
	assert.True(t, appErrors.IsNotFound(err))
}

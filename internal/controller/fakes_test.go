package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/controller"
	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/handler"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

const (
	owner = "owner-1"
	token = "token-1"
)

// --- Mock services ---

type stubAuth struct {
	signUpErr error
	revoked   []string
}

func (s *stubAuth) Authenticate(ctx context.Context, tok string) (*model.Identity, error) {
	if tok != token {
		return nil, appErrors.NewAuth(appErrors.AuthInvalidToken)
	}
	return &model.Identity{UserID: owner, Email: "ana@example.com"}, nil
}

func (s *stubAuth) SignUp(ctx context.Context, email, password string) (*service.Session, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &service.Session{Token: token, Identity: model.Identity{UserID: owner, Email: email}}, nil
}

func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	if password != "secret1" {
		return nil, appErrors.NewAuth(appErrors.AuthWrongPassword)
	}
	return &service.Session{Token: token, Identity: model.Identity{UserID: owner, Email: email}}, nil
}

func (s *stubAuth) SignOut(ctx context.Context, tok string) error {
	s.revoked = append(s.revoked, tok)
	return nil
}

type MockCampaignService struct {
	campaigns map[string]*model.Campaign
	lastInput service.CreateCampaignInput
	listArgs  []int
	status    string
	failWith  error
}

func newMockCampaignService() *MockCampaignService {
	return &MockCampaignService{campaigns: map[string]*model.Campaign{
		"c1": {ID: "c1", OwnerID: owner, Name: "Promo", TemplateID: "t1", Status: model.StatusScheduled, ContactIDs: []string{"k1"}, ContactsCount: 1},
	}}
}

func (m *MockCampaignService) get(ownerID, id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignService) CreateCampaign(ctx context.Context, ownerID string, in service.CreateCampaignInput) (*model.Campaign, error) {
	m.lastInput = in
	if in.SelectionMode == model.SelectManual {
		return nil, appErrors.ErrManualSelectionUnsupported
	}
	if m.failWith != nil {
		return nil, m.failWith
	}
	c := &model.Campaign{ID: "c2", OwnerID: ownerID, Name: in.Name, TemplateID: in.TemplateID, Status: model.StatusScheduled}
	m.campaigns[c.ID] = c
	return c, nil
}

func (m *MockCampaignService) StartCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	c, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if !c.CanStart() {
		return nil, appErrors.ErrInvalidTransition
	}
	c.Status = model.StatusActive
	return c, nil
}

func (m *MockCampaignService) ToggleCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	c, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if !c.CanToggle() {
		return nil, appErrors.ErrInvalidTransition
	}
	if c.Status == model.StatusActive {
		c.Status = model.StatusPaused
	} else {
		c.Status = model.StatusActive
	}
	return c, nil
}

func (m *MockCampaignService) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	if _, err := m.get(ownerID, id); err != nil {
		return err
	}
	delete(m.campaigns, id)
	return nil
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context, ownerID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	m.listArgs = []int{page, pageSize}
	m.status = status
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		out = append(out, *c)
	}
	return out, map[string]int{"page": 1, "page_size": 20, "total_count": len(out), "total_pages": 1}, nil
}

func (m *MockCampaignService) GetCampaignDetails(ctx context.Context, ownerID, id string) (*service.CampaignDetails, error) {
	c, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	return &service.CampaignDetails{
		Campaign:      *c,
		StatusLabel:   model.StatusLabel(c.Status),
		TemplateName:  service.TemplateNotFoundLabel,
		Contacts:      []model.Contact{},
		ContactsCount: c.ContactsCount,
	}, nil
}

func (m *MockCampaignService) CampaignLinks(ctx context.Context, ownerID, id string) ([]service.Link, error) {
	if _, err := m.get(ownerID, id); err != nil {
		return nil, err
	}
	return []service.Link{{
		Contact: model.Contact{ID: "k1", Name: "Ana", Phone: "5491100000001"},
		Message: "Hola Ana",
		URL:     "https://wa.me/5491100000001?text=Hola%20Ana",
	}}, nil
}

type MockTemplateService struct {
	modes []service.SaveMode
	err   error
}

func (m *MockTemplateService) SaveTemplate(ctx context.Context, ownerID string, mode service.SaveMode, in service.TemplateInput) (*model.Template, error) {
	m.modes = append(m.modes, mode)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Template{ID: "t1", OwnerID: ownerID, Name: in.Name, Body: in.Content}, nil
}

func (m *MockTemplateService) DeleteTemplate(ctx context.Context, ownerID, id string) error {
	return m.err
}

func (m *MockTemplateService) ListTemplates(ctx context.Context, ownerID string) ([]model.Template, error) {
	return []model.Template{{ID: "t1", OwnerID: ownerID, Name: "Bienvenida"}}, nil
}

func (m *MockTemplateService) PreviewTemplate(ctx context.Context, ownerID, id string) (*service.TemplatePreview, error) {
	return &service.TemplatePreview{Template: model.Template{ID: id}, Rendered: "Hola Cliente"}, nil
}

type MockContactService struct {
	query string
	modes []service.SaveMode
	err   error
}

func (m *MockContactService) SaveContact(ctx context.Context, ownerID string, mode service.SaveMode, in service.ContactInput) (*model.Contact, error) {
	m.modes = append(m.modes, mode)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Contact{ID: "k9", OwnerID: ownerID, Name: in.Name, Phone: in.Phone}, nil
}

func (m *MockContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	return m.err
}

func (m *MockContactService) ListContacts(ctx context.Context, ownerID, query string) ([]model.Contact, error) {
	m.query = query
	return []model.Contact{}, nil
}

type MockMessagingService struct {
	lastRequest service.LinkRequest
	noTemplates bool
}

func (m *MockMessagingService) GenerateLinks(ctx context.Context, ownerID string, req service.LinkRequest) ([]service.Link, error) {
	m.lastRequest = req
	return []service.Link{}, nil
}

func (m *MockMessagingService) SendToContact(ctx context.Context, ownerID, contactID, templateID string) (*service.Link, error) {
	if templateID == "" {
		return nil, appErrors.ErrTemplateRequired
	}
	return &service.Link{Contact: model.Contact{ID: contactID, Name: "Ana"}, URL: "https://wa.me/5491100000001?text=Hola"}, nil
}

func (m *MockMessagingService) SendTestMessage(ctx context.Context, ownerID string) (*service.TestMessage, error) {
	if m.noTemplates {
		return nil, appErrors.NewValidation("templates", "Primero crea una plantilla para enviar mensajes")
	}
	return &service.TestMessage{Phone: "5491122334455", URL: "https://wa.me/5491122334455?text=Hola"}, nil
}

func (m *MockMessagingService) GetStats(ctx context.Context, ownerID string) (service.Stats, error) {
	return service.Stats{Templates: 1, Contacts: 3, Campaigns: 1, MessagesSent: 3}, nil
}

type MockInbox struct {
	notices []notify.Notice
}

func (m *MockInbox) Drain(ctx context.Context, ownerID string) ([]notify.Notice, error) {
	out := m.notices
	m.notices = nil
	return out, nil
}

// --- Test harness ---

type harness struct {
	router    http.Handler
	auth      *stubAuth
	campaigns *MockCampaignService
	templates *MockTemplateService
	contacts  *MockContactService
	messaging *MockMessagingService
	inbox     *MockInbox
}

func newHarness() *harness {
	h := &harness{
		auth:      &stubAuth{},
		campaigns: newMockCampaignService(),
		templates: &MockTemplateService{},
		contacts:  &MockContactService{},
		messaging: &MockMessagingService{},
		inbox:     &MockInbox{},
	}
	h.router = controller.NewRouter(controller.Routes{
		Auth:      &controller.AuthController{AuthService: h.auth},
		Campaigns: &controller.CampaignController{CampaignService: h.campaigns},
		Templates: &controller.TemplateController{TemplateService: h.templates},
		Contacts:  &controller.ContactController{ContactService: h.contacts, MessagingService: h.messaging},
		Messaging: &controller.MessagingController{MessagingService: h.messaging, StatsService: h.messaging, Inbox: h.inbox},
		Views:     handler.NewCampaignHandler(h.campaigns, nil),

		Authenticator: h.auth,
	})
	return h
}

// do sends an authenticated request and decodes the envelope.
func (h *harness) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, api.Body) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var out api.Body
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

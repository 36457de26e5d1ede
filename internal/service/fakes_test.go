package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/unclebandit/walink-backend/internal/config"
	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
	"github.com/unclebandit/walink-backend/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDB = errors.New("connection refused")

// ====================== Campaigns ======================

type MockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	progress  []int
	failAt    int // UpdateProgress fails when asked to write this value
	failOps   map[string]bool
	completed chan string
}

func newMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{
		campaigns: map[string]*model.Campaign{},
		failOps:   map[string]bool{},
		completed: make(chan string, 8),
	}
}

func (m *MockCampaignRepo) put(c model.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.campaigns[c.ID] = &c
}

func (m *MockCampaignRepo) get(id string) model.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.campaigns[id]
}

func (m *MockCampaignRepo) writes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.progress...)
}

func (m *MockCampaignRepo) lookup(ownerID, id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps["create"] {
		return errDB
	}
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

func (m *MockCampaignRepo) sorted(ownerID, status string) []*model.Campaign {
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.OwnerID == ownerID && (status == "" || c.Status == status) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MockCampaignRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range m.sorted(ownerID, "") {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockCampaignRepo) ListCampaigns(ctx context.Context, ownerID string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(ownerID, status)
	start := offset
	end := offset + limit
	if start >= len(all) {
		return []*model.Campaign{}, len(all), nil
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (m *MockCampaignRepo) Delete(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(ownerID, id); err != nil {
		return err
	}
	delete(m.campaigns, id)
	return nil
}

func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, ownerID, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps["status"] {
		return errDB
	}
	c, err := m.lookup(ownerID, id)
	if err != nil {
		return err
	}
	c.Status = status
	return nil
}

func (m *MockCampaignRepo) MarkStarted(ctx context.Context, ownerID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps["start"] {
		return errDB
	}
	c, err := m.lookup(ownerID, id)
	if err != nil {
		return err
	}
	c.Status = model.StatusActive
	c.StartedAt = &at
	return nil
}

func (m *MockCampaignRepo) UpdateProgress(ctx context.Context, ownerID, id string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAt != 0 && progress == m.failAt {
		return errDB
	}
	c, err := m.lookup(ownerID, id)
	if err != nil {
		return err
	}
	c.Progress = progress
	m.progress = append(m.progress, progress)
	return nil
}

func (m *MockCampaignRepo) MarkCompleted(ctx context.Context, ownerID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(ownerID, id)
	if err != nil {
		return err
	}
	c.Status = model.StatusCompleted
	c.Progress = 100
	c.CompletedAt = &at
	m.progress = append(m.progress, 100)
	m.completed <- id
	return nil
}

var _ repository.CampaignRepositoryInterface = (*MockCampaignRepo)(nil)

// ====================== Templates & contacts ======================

type MockTemplateRepo struct {
	mu        sync.Mutex
	templates []model.Template
	fail      bool
}

func (m *MockTemplateRepo) Create(ctx context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDB
	}
	m.templates = append([]model.Template{*t}, m.templates...)
	return nil
}

func (m *MockTemplateRepo) Update(ctx context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.templates {
		if m.templates[i].ID == t.ID && m.templates[i].OwnerID == t.OwnerID {
			m.templates[i] = *t
			return nil
		}
	}
	return appErrors.NewNotFound("template", t.ID)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.templates {
		if m.templates[i].ID == id && m.templates[i].OwnerID == ownerID {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return appErrors.NewNotFound("template", id)
}

func (m *MockTemplateRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.ID == id && t.OwnerID == ownerID {
			return &t, nil
		}
	}
	return nil, appErrors.NewNotFound("template", id)
}

func (m *MockTemplateRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Template{}
	for _, t := range m.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type MockContactRepo struct {
	mu       sync.Mutex
	contacts []model.Contact
	lists    int
}

func (m *MockContactRepo) Create(ctx context.Context, c *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append([]model.Contact{*c}, m.contacts...)
	return nil
}

func (m *MockContactRepo) Update(ctx context.Context, c *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contacts {
		if m.contacts[i].ID == c.ID && m.contacts[i].OwnerID == c.OwnerID {
			m.contacts[i] = *c
			return nil
		}
	}
	return appErrors.NewNotFound("contact", c.ID)
}

func (m *MockContactRepo) Delete(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contacts {
		if m.contacts[i].ID == id && m.contacts[i].OwnerID == ownerID {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}
	return appErrors.NewNotFound("contact", id)
}

func (m *MockContactRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.ID == id && c.OwnerID == ownerID {
			return &c, nil
		}
	}
	return nil, appErrors.NewNotFound("contact", id)
}

func (m *MockContactRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []model.Contact{}
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ====================== Fixtures ======================

const owner = "owner-1"

// sampleContacts is in store order: 1, 2, 3.
func sampleContacts() []model.Contact {
	return []model.Contact{
		{ID: "1", OwnerID: owner, Name: "Ana", Phone: "5491111111111", Group: "vip"},
		{ID: "2", OwnerID: owner, Name: "Bruno", Phone: "5491122222222", Group: "std"},
		{ID: "3", OwnerID: owner, Name: "Carla", Phone: "5491133333333", Group: "vip"},
	}
}

func sampleTemplate() model.Template {
	return model.Template{ID: "t1", OwnerID: owner, Name: "Promo", Category: "promotion", Body: "Hola {{nombre}}, {{servicio}} a {{precio}}"}
}

func fixedClock() func() time.Time {
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newRenderer() *service.Renderer {
	r := service.NewRenderer(config.RendererConfig{
		DateLayout:     "02/01/2006",
		ServicePhrase:  "nuestro servicio",
		Price:          "$99",
		PreviewName:    "Cliente de Prueba",
		PreviewService: "servicio de prueba",
	}, config.MessagingConfig{DeepLinkBase: "https://wa.me/", TestPhone: "5491122334455"})
	r.Now = fixedClock()
	return r
}

type env struct {
	campaigns *MockCampaignRepo
	templates *MockTemplateRepo
	contacts  *MockContactRepo
	sessions  *service.SessionStore
}

func newEnv() *env {
	e := &env{
		campaigns: newMockCampaignRepo(),
		templates: &MockTemplateRepo{templates: []model.Template{sampleTemplate()}},
		contacts:  &MockContactRepo{contacts: sampleContacts()},
	}
	e.sessions = &service.SessionStore{
		TemplateRepo: e.templates,
		ContactRepo:  e.contacts,
		CampaignRepo: e.campaigns,
	}
	return e
}

package generate

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/pkg/anthropic"
)

// mockLLM implements anthropic.Client. Responses are consumed in order; the
// last one repeats.
type mockLLM struct {
	responses []string
	err       error
	calls     int
}

func (m *mockLLM) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	i := m.calls
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	text := ""
	if len(m.responses) > 0 {
		if i >= len(m.responses) {
			i = len(m.responses) - 1
		}
		text = m.responses[i]
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}

// mockStore records saved magnets.
type mockStore struct {
	saved   []*model.LeadMagnet
	saveErr error
}

func (m *mockStore) SaveLeadMagnet(_ context.Context, magnet *model.LeadMagnet) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, magnet)
	return nil
}

func (m *mockStore) GetLeadMagnet(_ context.Context, _ string) (*model.LeadMagnet, error) {
	return nil, nil
}

func (m *mockStore) ListLeadMagnets(_ context.Context, _ int) ([]model.LeadMagnet, error) {
	return nil, nil
}

func (m *mockStore) IncrementDownloads(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (m *mockStore) Migrate(_ context.Context) error { return nil }
func (m *mockStore) Close() error                    { return nil }

func fastConfig() Config {
	return Config{
		Model:      "claude-haiku-4-5-20251001",
		RatePerSec: 1000,
		Burst:      100,
	}
}

func TestLeadMagnet(t *testing.T) {
	llm := &mockLLM{responses: []string{
		`{"title": "Cash Flow Checklist", "description": "A checklist.", "type": "checklist", "content": "# Step 1\nReview invoices"}`,
	}}
	st := &mockStore{}
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(llm, st, fastConfig()).WithNow(func() time.Time { return fixed })

	magnet, err := g.LeadMagnet(context.Background(), model.UserProfile{BusinessType: "bookkeeping"}, "cash flow")
	require.NoError(t, err)

	assert.NotEmpty(t, magnet.ID)
	assert.Equal(t, "Cash Flow Checklist", magnet.Title)
	assert.Equal(t, "checklist", magnet.Type)
	assert.Equal(t, fixed, magnet.Created)

	require.Len(t, st.saved, 1)
	assert.Equal(t, magnet.ID, st.saved[0].ID)
}

func TestLeadMagnetDefaultsType(t *testing.T) {
	llm := &mockLLM{responses: []string{
		`{"title": "T", "description": "", "type": "", "content": "body"}`,
	}}
	g := NewGenerator(llm, nil, fastConfig())

	magnet, err := g.LeadMagnet(context.Background(), model.UserProfile{}, "topic")
	require.NoError(t, err)
	assert.Equal(t, "guide", magnet.Type)
}

func TestLeadMagnetMissingContentFails(t *testing.T) {
	llm := &mockLLM{responses: []string{`{"title": "T", "content": ""}`}}
	g := NewGenerator(llm, nil, fastConfig())

	_, err := g.LeadMagnet(context.Background(), model.UserProfile{}, "topic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing title or content")
}

func TestLeadMagnetLLMError(t *testing.T) {
	llm := &mockLLM{err: eris.New("overloaded")}
	g := NewGenerator(llm, nil, fastConfig())

	_, err := g.LeadMagnet(context.Background(), model.UserProfile{}, "topic")
	require.Error(t, err)
}

func TestLeadMagnetSaveError(t *testing.T) {
	llm := &mockLLM{responses: []string{`{"title": "T", "content": "body"}`}}
	st := &mockStore{saveErr: eris.New("disk full")}
	g := NewGenerator(llm, st, fastConfig())

	_, err := g.LeadMagnet(context.Background(), model.UserProfile{}, "topic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save lead magnet")
}

func TestStrategy(t *testing.T) {
	llm := &mockLLM{responses: []string{"Focus on Ideal Clients first."}}
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(llm, nil, fastConfig()).WithNow(func() time.Time { return fixed })

	contacts := []model.Contact{
		{ID: 1, Category: model.CategoryIdealClient},
		{ID: 2, Category: model.CategoryIdealClient},
		{ID: 3, Category: model.CategoryOther},
	}
	strategy, err := g.Strategy(context.Background(), model.UserProfile{}, contacts)
	require.NoError(t, err)

	assert.Equal(t, "Focus on Ideal Clients first.", strategy.Content)
	assert.Equal(t, fixed, strategy.Generated)
}

func TestMessagesOnePerContact(t *testing.T) {
	llm := &mockLLM{responses: []string{"Hi Jane!", "Hi Bob!"}}
	g := NewGenerator(llm, nil, fastConfig())

	contacts := []model.Contact{
		model.NewContact(1, "Jane Smith", "Acme", "CFO", ""),
		model.NewContact(2, "Bob Jones", "Initech", "CEO", ""),
	}
	messages := g.Messages(context.Background(), contacts, model.UserProfile{})

	require.Len(t, messages, 2)
	assert.Equal(t, 1, messages[0].ContactID)
	assert.Equal(t, "Hi Jane!", messages[0].Message)
	assert.Equal(t, 2, messages[1].ContactID)
	assert.Equal(t, "Hi Bob!", messages[1].Message)
}

func TestMessagesFailureGetsFallback(t *testing.T) {
	llm := &mockLLM{err: eris.New("overloaded")}
	g := NewGenerator(llm, nil, fastConfig())

	contacts := []model.Contact{
		model.NewContact(1, "Jane Smith", "Acme", "CFO", ""),
		model.NewContact(2, "Bob Jones", "Initech", "CEO", ""),
	}
	messages := g.Messages(context.Background(), contacts, model.UserProfile{})

	require.Len(t, messages, 2)
	for i, m := range messages {
		assert.Equal(t, contacts[i].ID, m.ContactID)
		assert.Equal(t, MessageFallback, m.Message)
	}
}

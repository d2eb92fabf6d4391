// Package generate builds marketing collateral (lead magnets, strategies,
// direct messages) from the LLM, reusing the same untrusted-text extraction
// discipline as the enrichment pipeline.
package generate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadforge/internal/extract"
	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/internal/prompt"
	"github.com/sells-group/leadforge/internal/store"
	"github.com/sells-group/leadforge/pkg/anthropic"
)

// MessageFallback is the sentinel message for a contact whose generation
// call failed.
const MessageFallback = "Generation failed"

// Config controls generation behavior. Generation budgets are deliberately
// higher than analysis budgets: collateral is long-form.
type Config struct {
	Model           string
	MagnetMaxTokens int64
	MaxTokens       int64

	RatePerSec float64
	Burst      int
}

func (c Config) withDefaults() Config {
	if c.MagnetMaxTokens <= 0 {
		c.MagnetMaxTokens = 4000
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2500
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 1
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}

// magnetSchema maps lead magnet extraction keys to defaults.
var magnetSchema = map[string]string{
	"title":       "",
	"description": "",
	"type":        "guide",
	"content":     "",
}

// Generator produces content artifacts. The store is optional; when present,
// lead magnets are persisted.
type Generator struct {
	llm     anthropic.Client
	store   store.Store
	limiter *rate.Limiter
	cfg     Config
	now     func() time.Time // injectable for testing
}

// NewGenerator creates a Generator.
func NewGenerator(llm anthropic.Client, st store.Store, cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		llm:     llm,
		store:   st,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (g *Generator) WithNow(now func() time.Time) *Generator {
	g.now = now
	return g
}

// LeadMagnet generates and persists one lead magnet for the given topic.
func (g *Generator) LeadMagnet(ctx context.Context, profile model.UserProfile, topic string) (*model.LeadMagnet, error) {
	completion, err := anthropic.Complete(ctx, g.llm, g.cfg.Model,
		prompt.LeadMagnet(profile, topic), g.cfg.MagnetMaxTokens, "generate_magnet")
	if err != nil {
		return nil, eris.Wrap(err, "generate: lead magnet")
	}

	fields, err := extract.Fields(completion, magnetSchema)
	if err != nil {
		return nil, eris.Wrap(err, "generate: lead magnet extraction")
	}
	if fields["title"] == "" || fields["content"] == "" {
		return nil, eris.New("generate: lead magnet missing title or content")
	}

	magnet := &model.LeadMagnet{
		ID:          uuid.NewString(),
		Title:       fields["title"],
		Description: fields["description"],
		Type:        fields["type"],
		Content:     fields["content"],
		Created:     g.now().UTC(),
	}

	if g.store != nil {
		if err := g.store.SaveLeadMagnet(ctx, magnet); err != nil {
			return nil, eris.Wrap(err, "generate: save lead magnet")
		}
	}

	zap.L().Info("generate: lead magnet created",
		zap.String("magnet_id", magnet.ID),
		zap.String("type", magnet.Type),
	)
	return magnet, nil
}

// Strategy generates an outreach strategy from the profile and the category
// breakdown of the contact list.
func (g *Generator) Strategy(ctx context.Context, profile model.UserProfile, contacts []model.Contact) (*model.Strategy, error) {
	counts := make(map[model.Category]int)
	for _, c := range contacts {
		counts[c.Category]++
	}

	completion, err := anthropic.Complete(ctx, g.llm, g.cfg.Model,
		prompt.Strategy(profile, counts), g.cfg.MaxTokens, "generate_strategy")
	if err != nil {
		return nil, eris.Wrap(err, "generate: strategy")
	}

	return &model.Strategy{
		Content:   completion,
		Generated: g.now().UTC(),
	}, nil
}

// Messages generates one direct message per contact, sequentially and
// paced. Output is 1:1 with input, in order; a failed contact gets the
// fallback sentinel message rather than being dropped.
func (g *Generator) Messages(ctx context.Context, contacts []model.Contact, profile model.UserProfile) []model.DirectMessage {
	out := make([]model.DirectMessage, 0, len(contacts))
	for i, c := range contacts {
		if i > 0 {
			if err := g.limiter.Wait(ctx); err != nil {
				for _, rest := range contacts[i:] {
					out = append(out, model.DirectMessage{ContactID: rest.ID, Message: MessageFallback})
				}
				return out
			}
		}

		completion, err := anthropic.Complete(ctx, g.llm, g.cfg.Model,
			prompt.DirectMessage(c, profile), g.cfg.MaxTokens, "generate_message")
		if err != nil {
			zap.L().Warn("generate: message failed",
				zap.Int("contact_id", c.ID),
				zap.Error(err),
			)
			out = append(out, model.DirectMessage{ContactID: c.ID, Message: MessageFallback})
			continue
		}
		out = append(out, model.DirectMessage{ContactID: c.ID, Message: completion})
	}
	return out
}

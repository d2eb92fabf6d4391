package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadforge/internal/extract"
	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/internal/prompt"
	"github.com/sells-group/leadforge/internal/resilience"
	"github.com/sells-group/leadforge/pkg/anthropic"
)

// FallbackReason is the terminal category reason when both the batch and the
// per-contact retries fail.
const FallbackReason = "Categorization failed - manual review needed"

// CategorizerConfig controls batch categorization behavior.
type CategorizerConfig struct {
	Model          string
	BatchSize      int
	BatchMaxTokens int64

	// RatePerSec paces batches; the per-contact fallback path uses the
	// retry backoff instead.
	RatePerSec float64
	Burst      int

	// RetryAttempts is the total attempts for one contact on the fallback
	// path (including the first try).
	RetryAttempts int
}

func (c CategorizerConfig) withDefaults() CategorizerConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.BatchMaxTokens <= 0 {
		c.BatchMaxTokens = 1500
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 1
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 2
	}
	return c
}

// singleSchema maps the single-contact fallback extraction keys to defaults.
// Empty defaults: a missing category is a retryable failure, not a silent
// "Other".
var singleSchema = map[string]string{
	"category": "",
	"reason":   "",
}

// Categorizer assigns relationship categories to already-enriched contacts
// in fixed-size batches, falling back to per-contact retries and finally to
// a terminal "Other" label.
type Categorizer struct {
	llm     anthropic.Client
	limiter *rate.Limiter
	cfg     CategorizerConfig
}

// NewCategorizer creates a Categorizer.
func NewCategorizer(llm anthropic.Client, cfg CategorizerConfig) *Categorizer {
	cfg = cfg.withDefaults()
	return &Categorizer{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		cfg:     cfg,
	}
}

// CategorizeAll processes contacts batch-by-batch, in order, and returns
// exactly one output record per input in the same relative order. Identity
// and enrichment fields pass through untouched; only Category and
// CategoryReason are set.
func (ca *Categorizer) CategorizeAll(ctx context.Context, contacts []model.Contact, profile model.UserProfile) []model.Contact {
	out := make([]model.Contact, 0, len(contacts))
	for start := 0; start < len(contacts); start += ca.cfg.BatchSize {
		end := min(start+ca.cfg.BatchSize, len(contacts))
		batch := contacts[start:end]

		if start > 0 {
			if err := ca.limiter.Wait(ctx); err != nil {
				for _, rest := range contacts[start:] {
					out = append(out, terminal(rest))
				}
				return out
			}
		}

		out = append(out, ca.categorizeBatch(ctx, batch, profile)...)
	}
	return out
}

// categorizeBatch runs one batch prompt and maps the response entries back
// onto the batch by 1-based contact number. Any batch-level failure — and
// any contact the response skipped — drops to the per-contact fallback.
func (ca *Categorizer) categorizeBatch(ctx context.Context, batch []model.Contact, profile model.UserProfile) []model.Contact {
	entries, err := ca.requestBatch(ctx, batch, profile)
	if err != nil {
		zap.L().Warn("categorize: batch failed, falling back per contact",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		entries = nil
	}

	byNumber := make(map[int]extract.Categorization, len(entries))
	for _, e := range entries {
		if e.ContactNumber >= 1 && e.ContactNumber <= len(batch) && model.ValidCategory(e.Category) {
			byNumber[e.ContactNumber] = e
		}
	}

	out := make([]model.Contact, 0, len(batch))
	for i, c := range batch {
		if e, ok := byNumber[i+1]; ok {
			c.Category = model.Category(e.Category)
			c.CategoryReason = e.Reason
			out = append(out, c)
			continue
		}
		out = append(out, ca.categorizeOne(ctx, c, profile))
	}
	return out
}

func (ca *Categorizer) requestBatch(ctx context.Context, batch []model.Contact, profile model.UserProfile) ([]extract.Categorization, error) {
	completion, err := anthropic.Complete(ctx, ca.llm, ca.cfg.Model,
		prompt.Batch(batch, profile), ca.cfg.BatchMaxTokens, "categorize_batch")
	if err != nil {
		return nil, err
	}
	return extract.Categorizations(completion)
}

// categorizeOne is the fallback path: a single-contact prompt with retries,
// then the terminal Other label.
func (ca *Categorizer) categorizeOne(ctx context.Context, c model.Contact, profile model.UserProfile) model.Contact {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:    ca.cfg.RetryAttempts,
		InitialBackoff: 500 * time.Millisecond,
		OnRetry:        resilience.RetryLogger("anthropic", "categorize_contact"),
	}

	result, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (map[string]string, error) {
		completion, err := anthropic.Complete(ctx, ca.llm, ca.cfg.Model,
			prompt.Single(c, profile), ca.cfg.BatchMaxTokens, "categorize_contact")
		if err != nil {
			return nil, err
		}
		fields, err := extract.Fields(completion, singleSchema)
		if err != nil {
			return nil, err
		}
		if !model.ValidCategory(fields["category"]) {
			return nil, eris.Errorf("categorize: invalid category %q", fields["category"])
		}
		return fields, nil
	})
	if err != nil {
		zap.L().Warn("categorize: contact fallback exhausted",
			zap.Int("contact_id", c.ID),
			zap.Error(err),
		)
		return terminal(c)
	}

	c.Category = model.Category(result["category"])
	c.CategoryReason = result["reason"]
	return c
}

// terminal assigns the last-resort label for a contact nothing could
// categorize.
func terminal(c model.Contact) model.Contact {
	c.Category = model.CategoryOther
	c.CategoryReason = FallbackReason
	return c
}

// Package enrich implements the per-contact enrichment pipeline and the
// batch categorization controller.
package enrich

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadforge/internal/extract"
	"github.com/sells-group/leadforge/internal/heuristic"
	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/internal/prompt"
	"github.com/sells-group/leadforge/pkg/anthropic"
	"github.com/sells-group/leadforge/pkg/serper"
)

// State tracks a contact's progress through the enrichment pipeline.
type State string

const (
	StatePending        State = "pending"
	StateSearching      State = "searching"
	StateAnalyzing      State = "analyzing"
	StatePostProcessing State = "post_processing"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Config controls enrichment behavior.
type Config struct {
	Model             string
	AnalysisMaxTokens int64
	SearchResults     int
	PhoneRegion       string

	// RatePerSec paces contacts through the pipeline. The default of 1/s
	// matches the upstream quota budget the product was tuned for.
	RatePerSec float64
	Burst      int
}

func (c Config) withDefaults() Config {
	if c.AnalysisMaxTokens <= 0 {
		c.AnalysisMaxTokens = 1200
	}
	if c.SearchResults <= 0 {
		c.SearchResults = 5
	}
	if c.PhoneRegion == "" {
		c.PhoneRegion = "US"
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 1
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}

// analysisSchema maps expected extraction keys to their sentinel defaults.
var analysisSchema = map[string]string{
	"phone":          model.SentinelNotFound,
	"website":        model.SentinelNotFound,
	"industry":       model.SentinelNotFound,
	"category":       string(model.CategoryOther),
	"categoryReason": "",
}

// Enricher runs the enrichment pipeline over a contact list: search, LLM
// analysis, extraction, heuristic post-processing, merge. Contacts are
// processed strictly sequentially; the limiter paces them to stay inside
// upstream quotas.
type Enricher struct {
	search  serper.Client
	llm     anthropic.Client
	limiter *rate.Limiter
	cfg     Config
}

// NewEnricher creates an Enricher.
func NewEnricher(search serper.Client, llm anthropic.Client, cfg Config) *Enricher {
	cfg = cfg.withDefaults()
	return &Enricher{
		search:  search,
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		cfg:     cfg,
	}
}

// EnrichAll enriches every contact in order and returns exactly one output
// record per input, in the same relative order. A failure for one contact
// never aborts the rest: that contact degrades to sentinel values with
// IsEnriched still set. Original identity fields are never overwritten.
func (e *Enricher) EnrichAll(ctx context.Context, contacts []model.Contact, profile model.UserProfile) []model.Contact {
	out := make([]model.Contact, 0, len(contacts))
	for i, c := range contacts {
		if i > 0 {
			if err := e.limiter.Wait(ctx); err != nil {
				// Context cancelled mid-run: degrade the remaining contacts
				// so the caller still gets N records for N inputs.
				for _, rest := range contacts[i:] {
					out = append(out, failContact(rest, model.SentinelSearchFailed))
				}
				return out
			}
		}
		out = append(out, e.EnrichOne(ctx, c, profile))
	}
	return out
}

// EnrichOne runs the state machine for a single contact. It always returns
// a usable record; errors surface as sentinel values, never as an aborted
// contact.
func (e *Enricher) EnrichOne(ctx context.Context, c model.Contact, profile model.UserProfile) model.Contact {
	start := time.Now()
	state := StatePending

	logState := func(s State) {
		state = s
		zap.L().Debug("enrich: state transition",
			zap.Int("contact_id", c.ID),
			zap.String("state", string(s)),
		)
	}

	logState(StateSearching)
	results, err := e.searchContact(ctx, c)
	if err != nil {
		zap.L().Warn("enrich: search failed",
			zap.Int("contact_id", c.ID),
			zap.String("company", c.Company),
			zap.Error(err),
		)
		return failContact(c, model.SentinelSearchFailed)
	}

	candidates := heuristic.RankWebsiteCandidates(results, c.Company)

	logState(StateAnalyzing)
	completion, err := anthropic.Complete(ctx, e.llm, e.cfg.Model,
		prompt.Analysis(c, profile, results, candidates),
		e.cfg.AnalysisMaxTokens, "enrich_analysis")
	if err != nil {
		zap.L().Warn("enrich: analysis failed",
			zap.Int("contact_id", c.ID),
			zap.Error(err),
		)
		return failContact(c, model.SentinelSearchFailed)
	}

	logState(StatePostProcessing)
	fields, err := extract.Fields(completion, analysisSchema)
	if err != nil {
		zap.L().Warn("enrich: extraction failed",
			zap.Int("contact_id", c.ID),
			zap.Error(err),
		)
		return failContact(c, model.SentinelParsingFailed)
	}

	c.Phone = heuristic.NormalizePhone(fields["phone"], e.cfg.PhoneRegion)
	c.Website = heuristic.NormalizeWebsite(fields["website"], heuristic.CandidateURLs(candidates))
	c.Industry = heuristic.InferIndustry(fields["industry"], c.Position, c.Company)

	if model.ValidCategory(fields["category"]) {
		c.Category = model.Category(fields["category"])
	} else {
		c.Category = model.CategoryOther
	}
	c.CategoryReason = fields["categoryReason"]
	c.IsEnriched = true

	logState(StateDone)
	zap.L().Info("enrich: contact complete",
		zap.Int("contact_id", c.ID),
		zap.String("company", c.Company),
		zap.String("industry", c.Industry),
		zap.String("state", string(state)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c
}

// searchContact runs the company and person searches for one contact
// concurrently and returns the combined results, company results first.
// This is the only fan-out in the pipeline; contacts themselves are never
// parallelized.
func (e *Enricher) searchContact(ctx context.Context, c model.Contact) ([]model.SearchResult, error) {
	companyQuery := fmt.Sprintf("%q official website contact information business phone", c.Company)
	personQuery := fmt.Sprintf("%q %q contact", c.Name, c.Company)

	var companyResults, personResults []model.SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := e.search.Search(gctx, companyQuery, e.cfg.SearchResults)
		if err != nil {
			return err
		}
		companyResults = resp.Organic
		return nil
	})
	g.Go(func() error {
		resp, err := e.search.Search(gctx, personQuery, e.cfg.SearchResults)
		if err != nil {
			// The person search is supplementary; only the company search
			// decides success.
			zap.L().Debug("enrich: person search failed",
				zap.Int("contact_id", c.ID),
				zap.Error(err),
			)
		} else {
			personResults = resp.Organic
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(companyResults, personResults...), nil
}

// failContact marks a contact as attempted, with every enrichment field set
// to the given sentinel. Industry still gets a best-effort guess from the
// job title alone.
func failContact(c model.Contact, sentinel string) model.Contact {
	c.Phone = sentinel
	c.Website = sentinel
	c.Industry = heuristic.InferIndustry(model.SentinelNotFound, c.Position, c.Company)
	c.Category = model.CategoryOther
	c.CategoryReason = ""
	c.IsEnriched = true
	return c
}

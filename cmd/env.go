package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadforge/internal/enrich"
	"github.com/sells-group/leadforge/internal/generate"
	"github.com/sells-group/leadforge/internal/store"
	"github.com/sells-group/leadforge/pkg/anthropic"
	"github.com/sells-group/leadforge/pkg/apollo"
	"github.com/sells-group/leadforge/pkg/serper"
)

// env holds the constructed clients and pipelines shared by the commands.
type env struct {
	Enricher    *enrich.Enricher
	Categorizer *enrich.Categorizer
	Generator   *generate.Generator
	Apollo      apollo.Client
	Store       store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

// initEnv builds the clients and pipelines from config. Credentials are
// validated lazily by the clients on first use, so commands that never touch
// a service do not require its key.
func initEnv(ctx context.Context) (*env, error) {
	search := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
	llm := anthropic.NewClient(cfg.Anthropic.Key)
	apolloClient := apollo.NewClient(cfg.Apollo.Key, apollo.WithBaseURL(cfg.Apollo.BaseURL))

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	enricher := enrich.NewEnricher(search, llm, enrich.Config{
		Model:             cfg.Anthropic.Model,
		AnalysisMaxTokens: cfg.Anthropic.AnalysisMaxTokens,
		SearchResults:     cfg.Serper.Results,
		PhoneRegion:       cfg.Enrich.PhoneRegion,
		RatePerSec:        cfg.Enrich.RatePerSec,
		Burst:             cfg.Enrich.Burst,
	})

	categorizer := enrich.NewCategorizer(llm, enrich.CategorizerConfig{
		Model:         cfg.Anthropic.Model,
		BatchSize:     cfg.Categorize.BatchSize,
		RatePerSec:    cfg.Categorize.RatePerSec,
		RetryAttempts: cfg.Categorize.RetryAttempts,
	})

	generator := generate.NewGenerator(llm, st, generate.Config{
		Model:           cfg.Anthropic.Model,
		MagnetMaxTokens: cfg.Anthropic.MagnetMaxTokens,
		MaxTokens:       cfg.Anthropic.GenerateMaxTokens,
		RatePerSec:      cfg.Generate.RatePerSec,
	})

	return &env{
		Enricher:    enricher,
		Categorizer: categorizer,
		Generator:   generator,
		Apollo:      apolloClient,
		Store:       st,
	}, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

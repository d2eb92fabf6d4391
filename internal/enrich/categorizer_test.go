package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadforge/internal/model"
)

func fastCategorizerConfig() CategorizerConfig {
	return CategorizerConfig{
		Model:         "claude-haiku-4-5-20251001",
		BatchSize:     5,
		RatePerSec:    1000,
		Burst:         100,
		RetryAttempts: 2,
	}
}

func contactsN(n int) []model.Contact {
	out := make([]model.Contact, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.NewContact(i, fmt.Sprintf("Person %d", i), fmt.Sprintf("Company %d", i), "CEO", ""))
	}
	return out
}

func batchResponse(n int, category string) string {
	resp := `{"categorizations": [`
	for i := 1; i <= n; i++ {
		if i > 1 {
			resp += ","
		}
		resp += fmt.Sprintf(`{"contactNumber": %d, "category": %q, "reason": "r%d"}`, i, category, i)
	}
	return resp + `]}`
}

func TestCategorizeAllHappyPath(t *testing.T) {
	llm := &mockLLM{responses: []string{batchResponse(3, "Champion")}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	in := contactsN(3)
	out := ca.CategorizeAll(context.Background(), in, model.UserProfile{})

	require.Len(t, out, 3)
	for i, c := range out {
		assert.Equal(t, in[i].ID, c.ID)
		assert.Equal(t, model.CategoryChampion, c.Category)
		assert.Equal(t, fmt.Sprintf("r%d", i+1), c.CategoryReason)
	}
	// One prompt for the whole batch.
	assert.Equal(t, 1, llm.calls)
}

func TestCategorizeAllBatching(t *testing.T) {
	llm := &mockLLM{responses: []string{
		batchResponse(5, "Other"),
		batchResponse(2, "Other"),
	}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(7), model.UserProfile{})

	require.Len(t, out, 7)
	assert.Equal(t, 2, llm.calls)
	for i, c := range out {
		assert.Equal(t, i+1, c.ID)
		assert.Equal(t, model.CategoryOther, c.Category)
	}
}

func TestCategorizeBatchFallsBackPerContact(t *testing.T) {
	// Batch call returns no JSON; each contact then succeeds individually.
	llm := &mockLLM{responses: []string{
		"no structured output",
		`{"category": "Ideal Client", "reason": "fits"}`,
	}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(2), model.UserProfile{})

	require.Len(t, out, 2)
	for _, c := range out {
		assert.Equal(t, model.CategoryIdealClient, c.Category)
		assert.Equal(t, "fits", c.CategoryReason)
	}
	// 1 batch call + 2 single calls.
	assert.Equal(t, 3, llm.calls)
}

func TestCategorizeBatchSkippedContactFallsBack(t *testing.T) {
	// The batch response covers contacts 1 and 3 but skips 2.
	llm := &mockLLM{responses: []string{
		`{"categorizations": [
			{"contactNumber": 1, "category": "Champion", "reason": "a"},
			{"contactNumber": 3, "category": "Competitor", "reason": "c"}
		]}`,
		`{"category": "Other", "reason": "single"}`,
	}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(3), model.UserProfile{})

	require.Len(t, out, 3)
	assert.Equal(t, model.CategoryChampion, out[0].Category)
	assert.Equal(t, model.CategoryOther, out[1].Category)
	assert.Equal(t, "single", out[1].CategoryReason)
	assert.Equal(t, model.CategoryCompetitor, out[2].Category)
}

func TestCategorizeBatchInvalidEntriesIgnored(t *testing.T) {
	// Out-of-range numbers and invalid categories are dropped, and those
	// contacts take the fallback path.
	llm := &mockLLM{responses: []string{
		`{"categorizations": [
			{"contactNumber": 0, "category": "Champion", "reason": "bad number"},
			{"contactNumber": 9, "category": "Champion", "reason": "out of range"},
			{"contactNumber": 1, "category": "VIP", "reason": "bad category"},
			{"contactNumber": 2, "category": "Champion", "reason": "ok"}
		]}`,
		`{"category": "Other", "reason": "fallback"}`,
	}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(2), model.UserProfile{})

	require.Len(t, out, 2)
	assert.Equal(t, model.CategoryOther, out[0].Category)
	assert.Equal(t, "fallback", out[0].CategoryReason)
	assert.Equal(t, model.CategoryChampion, out[1].Category)
}

func TestCategorizeOneRetriesThenSucceeds(t *testing.T) {
	llm := &mockLLM{
		responses: []string{
			"",              // batch fails: no JSON
			"still no json", // single attempt 1
			`{"category": "Referral Partner", "reason": "refers work"}`, // single attempt 2
		},
	}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(1), model.UserProfile{})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryReferralPartner, out[0].Category)
}

func TestCategorizeExhaustedFallbackIsTerminal(t *testing.T) {
	llm := &mockLLM{err: eris.New("overloaded")}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	in := contactsN(2)
	in[0].Website = "https://company1.com"
	out := ca.CategorizeAll(context.Background(), in, model.UserProfile{})

	require.Len(t, out, 2)
	for i, c := range out {
		assert.Equal(t, in[i].ID, c.ID)
		assert.Equal(t, model.CategoryOther, c.Category)
		assert.Equal(t, FallbackReason, c.CategoryReason)
	}
	// Enrichment fields pass through untouched.
	assert.Equal(t, "https://company1.com", out[0].Website)
}

func TestCategorizeAllCancelledContextStillCovers(t *testing.T) {
	llm := &mockLLM{responses: []string{batchResponse(5, "Other")}}
	ca := NewCategorizer(llm, CategorizerConfig{RatePerSec: 0.001, Burst: 1, BatchSize: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := ca.CategorizeAll(ctx, contactsN(12), model.UserProfile{})

	require.Len(t, out, 12)
	// Later batches hit the cancelled limiter and get the terminal label.
	assert.Equal(t, FallbackReason, out[11].CategoryReason)
}

func TestCategorizeOneInvalidCategoryRetried(t *testing.T) {
	llm := &mockLLM{responses: []string{
		"batch fails",
		`{"category": "Friend", "reason": "not canonical"}`,
		`{"category": "Champion", "reason": "ok"}`,
	}}
	ca := NewCategorizer(llm, fastCategorizerConfig())

	out := ca.CategorizeAll(context.Background(), contactsN(1), model.UserProfile{})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryChampion, out[0].Category)
	assert.Equal(t, 3, llm.calls)
}

package faq

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns fixed vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	s.calls++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := s.vectors[t]
		if !ok {
			return nil, errors.New("no vector for " + t)
		}
		out[i] = v
	}
	return out, nil
}

func testCorpus() ([]Record, *stubEmbedder) {
	records := []Record{
		{ID: "0", Question: "How do I transfer ownership?", Answer: "Visit the RTO with form 29 and 30."},
		{ID: "1", Question: "What is the warranty period?", Answer: "Three years or one lakh kilometres."},
		{ID: "2", Question: "How do I book a service?", Answer: "Use the app or call your dealer."},
	}
	emb := &stubEmbedder{vectors: map[string][]float64{
		"How do I transfer ownership?":         {1, 0, 0},
		"Visit the RTO with form 29 and 30.":   {0.9, 0.1, 0},
		"What is the warranty period?":         {0, 1, 0},
		"Three years or one lakh kilometres.":  {0, 0.8, 0.2},
		"How do I book a service?":             {0, 0, 1},
		"Use the app or call your dealer.":     {0.1, 0, 0.9},
		"transfer ownership of my car":         {0.95, 0.05, 0},
		"warranty":                             {0.1, 0.9, 0},
		"zero":                                 {0, 0, 0},
	}}
	return records, emb
}

func initService(t *testing.T, cachePath string) (*Service, *stubEmbedder) {
	t.Helper()
	records, emb := testCorpus()
	s := New(records, emb)
	require.NoError(t, s.Init(context.Background(), cachePath))
	return s, emb
}

func TestSearch_MaxMergeAndOrdering(t *testing.T) {
	s, _ := initService(t, "")

	results, err := s.Search(context.Background(), "transfer ownership of my car", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// The ownership record wins through its question vector.
	assert.Equal(t, "0", results[0].ID)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Per-record score is the max of question and answer similarity: the
	// answer vector (0.9, 0.1, 0) scores below the question vector here.
	assert.InDelta(t, cosine([]float64{0.95, 0.05, 0}, []float64{1, 0, 0}), results[0].Score, 1e-9)
}

func TestSearch_SelfSimilarityIsOne(t *testing.T) {
	s, _ := initService(t, "")

	results, err := s.Search(context.Background(), "What is the warranty period?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearch_Idempotent(t *testing.T) {
	s, _ := initService(t, "")

	first, err := s.Search(context.Background(), "warranty", 3)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), "warranty", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearch_ZeroNormQueryScoresZero(t *testing.T) {
	s, _ := initService(t, "")

	results, err := s.Search(context.Background(), "zero", 3)
	require.NoError(t, err)
	for _, r := range results {
		assert.Zero(t, r.Score)
	}
}

func TestSearch_LimitTruncates(t *testing.T) {
	s, _ := initService(t, "")

	results, err := s.Search(context.Background(), "warranty", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	none, err := s.Search(context.Background(), "warranty", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInit_CacheRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "faq_cache.json")

	_, emb := initService(t, cachePath)
	buildCalls := emb.calls // two Embed calls: questions + answers
	require.Equal(t, 2, buildCalls)

	// Second service over the same corpus loads the cache, no embedding.
	records, emb2 := testCorpus()
	s2 := New(records, emb2)
	require.NoError(t, s2.Init(context.Background(), cachePath))
	assert.Zero(t, emb2.calls)

	results, err := s2.Search(context.Background(), "warranty", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", results[0].ID)
}

func TestInit_FingerprintMismatchRebuilds(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "faq_cache.json")
	initService(t, cachePath)

	// Change a record's answer; the cache must be invalidated.
	records, emb := testCorpus()
	records[1].Answer = "Five years, unlimited kilometres."
	emb.vectors["Five years, unlimited kilometres."] = []float64{0, 0.7, 0.3}

	s := New(records, emb)
	require.NoError(t, s.Init(context.Background(), cachePath))
	assert.Equal(t, 2, emb.calls, "corpus change must trigger a rebuild")
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Zero(t, cosine([]float64{1}, []float64{1, 2}))
	assert.InDelta(t, -1.0, cosine([]float64{1, 1}, []float64{-1, -1}), 1e-9)
}

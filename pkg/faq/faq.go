// Package faq implements semantic search over a frequently-asked-questions
// corpus using question and answer embeddings.
package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
)

// Record is one FAQ entry. ID is the record's stable position in the
// source file, assigned at load time.
type Record struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Result is a scored search hit.
type Result struct {
	Record
	Score float64 `json:"score"`
}

// Embedder computes embedding vectors for texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Service answers semantic queries against the corpus. Immutable after
// Init; safe for concurrent Search calls.
type Service struct {
	records  []Record
	qvecs    [][]float64
	avecs    [][]float64
	embedder Embedder
	logger   *slog.Logger
}

// LoadRecords reads the FAQ corpus from a JSON array file and assigns
// position-based IDs.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse faq file: %w", err)
	}
	for i := range records {
		records[i].ID = strconv.Itoa(i)
	}
	return records, nil
}

// New creates a service over the given corpus. Init must be called before
// Search.
func New(records []Record, embedder Embedder) *Service {
	return &Service{
		records:  records,
		embedder: embedder,
		logger:   slog.Default().With("component", "faq"),
	}
}

// Init prepares the question and answer embedding matrices: loaded from
// the cache file when its fingerprint matches the corpus, rebuilt through
// the embedder otherwise. A failed cache write is logged, not fatal; the
// next start simply rebuilds.
func (s *Service) Init(ctx context.Context, cachePath string) error {
	fp := fingerprint(s.records)

	if cachePath != "" {
		if q, a, ok := loadCache(cachePath, fp, len(s.records)); ok {
			s.logger.Info("loaded embedding cache", "path", cachePath, "records", len(s.records))
			s.qvecs, s.avecs = q, a
			return nil
		}
	}

	questions := make([]string, len(s.records))
	answers := make([]string, len(s.records))
	for i, r := range s.records {
		questions[i] = r.Question
		answers[i] = r.Answer
	}

	s.logger.Info("building embedding matrices", "records", len(s.records))
	qvecs, err := s.embedder.Embed(ctx, questions)
	if err != nil {
		return fmt.Errorf("embed questions: %w", err)
	}
	avecs, err := s.embedder.Embed(ctx, answers)
	if err != nil {
		return fmt.Errorf("embed answers: %w", err)
	}
	s.qvecs, s.avecs = qvecs, avecs

	if cachePath != "" {
		if err := saveCache(cachePath, fp, qvecs, avecs); err != nil {
			s.logger.Warn("failed to write embedding cache", "path", cachePath, "error", err)
		}
	}
	return nil
}

// Search embeds the query once and scores every record as the max of its
// question and answer cosine similarity, returning the top hits in
// descending score order.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}
	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vecs))
	}
	qv := vecs[0]

	results := make([]Result, len(s.records))
	for i, r := range s.records {
		score := cosine(qv, s.qvecs[i])
		if a := cosine(qv, s.avecs[i]); a > score {
			score = a
		}
		results[i] = Result{Record: r, Score: score}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

package faq

import (
	"encoding/json"
	"hash/fnv"
	"os"
	"strconv"
)

// cacheFile is the on-disk embedding cache. Fingerprint binds the vectors
// to the exact corpus they were built from.
type cacheFile struct {
	Fingerprint     uint64      `json:"fingerprint"`
	QuestionVectors [][]float64 `json:"question_vectors"`
	AnswerVectors   [][]float64 `json:"answer_vectors"`
}

// fingerprint hashes the record count and every record's id, question and
// answer in order. Any edit, insertion, deletion or reorder of the corpus
// changes the value.
func fingerprint(records []Record) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.Itoa(len(records))))
	for _, r := range records {
		h.Write([]byte{0})
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(r.Question))
		h.Write([]byte{0})
		h.Write([]byte(r.Answer))
	}
	return h.Sum64()
}

// loadCache returns the cached matrices when the file exists, parses, and
// matches both the fingerprint and the expected record count.
func loadCache(path string, fp uint64, count int) (q, a [][]float64, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, nil, false
	}
	if cf.Fingerprint != fp || len(cf.QuestionVectors) != count || len(cf.AnswerVectors) != count {
		return nil, nil, false
	}
	return cf.QuestionVectors, cf.AnswerVectors, true
}

// saveCache writes the cache atomically via a temp file rename.
func saveCache(path string, fp uint64, q, a [][]float64) error {
	data, err := json.Marshal(cacheFile{
		Fingerprint:     fp,
		QuestionVectors: q,
		AnswerVectors:   a,
	})
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

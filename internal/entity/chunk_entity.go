package entity

import (
	"fmt"
	"math"
	"time"
)

// EmbeddingDimension matches the text-embedding-004 output size. The vector
// column and every provider must agree on it.
const EmbeddingDimension = 768

// Embedding is a fixed-length vector used only for similarity scoring.
type Embedding []float32

// Validate checks the vector is non-empty, finite, and of the expected
// dimensionality. Pass 0 to skip the dimension check.
func (e Embedding) Validate(expectedDim int) error {
	if len(e) == 0 {
		return fmt.Errorf("embedding is empty")
	}
	if expectedDim > 0 && len(e) != expectedDim {
		return fmt.Errorf("embedding has %d dimensions, expected %d", len(e), expectedDim)
	}
	for i, v := range e {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("embedding value at index %d is not finite", i)
		}
	}
	return nil
}

// Chunk is one embedded unit of source content. Created during ingestion,
// immutable thereafter, owned by the namespace it was upserted into.
type Chunk struct {
	Id               string
	TenantId         string
	KnowledgeSpaceId string
	Url              string
	Domain           string
	Content          string
	Embedding        Embedding
	Metadata         map[string]interface{}
	CreatedAt        time.Time
}

// SearchResult pairs a chunk with its similarity score for one query.
// Produced fresh per query, never persisted.
type SearchResult struct {
	Chunk *Chunk
	Score float64
}

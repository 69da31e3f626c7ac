package vectorstore

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/prompt-general/supportdesk/internal/datastore"
	"github.com/prompt-general/supportdesk/internal/embedding"
)

type indexState int

const (
	stateUninitialized indexState = iota
	stateBuilding
	stateReady
)

// LocalIndex is an exact in-memory nearest-neighbor index over embedded
// knowledge articles. It is the single-process fallback behind the remote
// index: brute-force L2 search over a flat vector list, deterministic for a
// fixed build and query embedding, ties broken by insertion order.
//
// A build that yields no entries leaves the index uninitialized; queries
// against an uninitialized index return no results rather than failing.
type LocalIndex struct {
	embedder embedding.Provider

	mu      sync.RWMutex
	state   indexState
	vectors [][]float32
	entries []datastore.KnowledgeArticle
}

// NewLocalIndex creates an empty, uninitialized index
func NewLocalIndex(embedder embedding.Provider) *LocalIndex {
	return &LocalIndex{embedder: embedder}
}

// Ready reports whether the index has been built and can serve queries
func (ix *LocalIndex) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state == stateReady
}

// Len returns the number of indexed entries
func (ix *LocalIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Build embeds every article and stores the vectors alongside a parallel
// entry list. The write lock covers the whole build, so queries never
// observe a partially built index. An empty article set leaves the index
// uninitialized.
func (ix *LocalIndex) Build(ctx context.Context, articles []datastore.KnowledgeArticle) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(articles) == 0 {
		log.Printf("[vectorstore] no knowledge articles to index, local index unavailable")
		ix.state = stateUninitialized
		ix.vectors = nil
		ix.entries = nil
		return
	}

	ix.state = stateBuilding
	vectors := make([][]float32, 0, len(articles))
	entries := make([]datastore.KnowledgeArticle, 0, len(articles))

	for _, article := range articles {
		vectors = append(vectors, ix.embedder.Embed(ctx, indexText(article)))
		entries = append(entries, article)
	}

	ix.vectors = vectors
	ix.entries = entries
	ix.state = stateReady
	log.Printf("[vectorstore] local index built with %d entries", len(entries))
}

// Query embeds the text and returns the topK closest entries by L2 distance,
// closest first. An uninitialized index returns no results.
func (ix *LocalIndex) Query(ctx context.Context, text string, topK int) []Result {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.state != stateReady || len(ix.entries) == 0 {
		log.Printf("[vectorstore] local index not initialized")
		return nil
	}
	if topK <= 0 {
		return nil
	}

	queryVec := ix.embedder.Embed(ctx, text)

	type candidate struct {
		position int
		distance float64
	}
	candidates := make([]candidate, len(ix.vectors))
	for i, vec := range ix.vectors {
		candidates[i] = candidate{position: i, distance: l2Distance(queryVec, vec)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}

	results := make([]Result, 0, topK)
	for _, c := range candidates[:topK] {
		entry := ix.entries[c.position]
		results = append(results, Result{
			Title:    entry.Title,
			Content:  entry.Content,
			Category: entry.Category,
			Score:    c.distance,
		})
	}
	return results
}

// l2Distance is squared Euclidean distance over the shared prefix of the two
// vectors. Squared distance preserves nearest-neighbor ordering.
func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

package vectorstore

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/prompt-general/supportdesk/internal/embedding"
)

// Store is the retrieval facade over the remote index service and the local
// in-process index. The fallback policy is evaluated on every call:
//
//  1. If a remote index is configured and reports available, query it. A
//     non-empty result is returned as-is and the local index is not touched.
//  2. Otherwise — remote unconfigured, unavailable, erroring, or empty — and
//     local fallback is enabled, serve from the local index, building it
//     lazily from the current article set if it is not ready.
//  3. If local fallback is disabled by configuration, a failed remote path
//     yields no results. That is an operator choice: surface remote outages
//     instead of masking them with lower-quality local answers.
type Store struct {
	remote        RemoteIndex
	articles      ArticleSource
	embedder      embedding.Provider
	localFallback bool

	// buildMu serializes local index construction; the index reference is
	// replaced whole, never mutated while readers are in flight.
	buildMu sync.Mutex
	local   atomic.Pointer[LocalIndex]
}

// NewStore creates the retrieval facade. remote may be an unconfigured
// adapter; articles supplies the entry set for local builds.
func NewStore(remote RemoteIndex, articles ArticleSource, embedder embedding.Provider, localFallback bool) *Store {
	return &Store{
		remote:        remote,
		articles:      articles,
		embedder:      embedder,
		localFallback: localFallback,
	}
}

// Initialize prepares whichever backend the policy selects: populating the
// remote index when it is usable, otherwise building the local one. It never
// fails hard; an unusable vector store just serves empty results.
func (s *Store) Initialize(ctx context.Context) {
	if s.remote != nil && s.remote.Configured() && s.remote.Available(ctx) {
		articles, err := s.articles.ListArticles(ctx)
		if err != nil {
			log.Printf("[vectorstore] failed to list articles for remote population: %v", err)
		} else if err := s.remote.Populate(ctx, articles); err != nil {
			log.Printf("[vectorstore] failed to populate remote index: %v", err)
		} else {
			return
		}
	}

	if !s.localFallback {
		log.Printf("[vectorstore] local fallback disabled, vector search will be unavailable until the remote index recovers")
		return
	}
	s.rebuildLocal(ctx)
}

// Query runs the fallback policy for one retrieval call
func (s *Store) Query(ctx context.Context, text string, topK int) []Result {
	if s.remote != nil && s.remote.Configured() {
		if s.remote.Available(ctx) {
			results, err := s.remote.Query(ctx, text, topK)
			if err != nil {
				log.Printf("[vectorstore] remote query failed: %v", err)
			} else if len(results) > 0 {
				return results
			} else {
				log.Printf("[vectorstore] remote index returned no results")
			}
		} else {
			log.Printf("[vectorstore] remote index unavailable")
		}
	} else {
		log.Printf("[vectorstore] remote index not configured")
	}

	if !s.localFallback {
		log.Printf("[vectorstore] local fallback disabled, returning no results")
		return nil
	}

	local := s.ensureLocal(ctx)
	if local == nil {
		return nil
	}
	return local.Query(ctx, text, topK)
}

// Rebuild discards derived state and rebuilds from the current article set.
// The local index is rebuilt into a fresh instance and swapped in atomically;
// the remote index is repopulated by upsert.
func (s *Store) Rebuild(ctx context.Context) {
	if s.remote != nil && s.remote.Configured() && s.remote.Available(ctx) {
		articles, err := s.articles.ListArticles(ctx)
		if err != nil {
			log.Printf("[vectorstore] failed to list articles for rebuild: %v", err)
		} else if err := s.remote.Populate(ctx, articles); err != nil {
			log.Printf("[vectorstore] failed to repopulate remote index: %v", err)
		}
	}
	if s.localFallback {
		s.rebuildLocal(ctx)
	}
}

// ensureLocal returns a ready local index, building one if needed
func (s *Store) ensureLocal(ctx context.Context) *LocalIndex {
	if local := s.local.Load(); local != nil && local.Ready() {
		return local
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	// Another caller may have finished the build while we waited
	if local := s.local.Load(); local != nil && local.Ready() {
		return local
	}
	return s.buildLocalLocked(ctx)
}

func (s *Store) rebuildLocal(ctx context.Context) *LocalIndex {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.buildLocalLocked(ctx)
}

func (s *Store) buildLocalLocked(ctx context.Context) *LocalIndex {
	articles, err := s.articles.ListArticles(ctx)
	if err != nil {
		log.Printf("[vectorstore] failed to list articles for local index: %v", err)
		return s.local.Load()
	}

	index := NewLocalIndex(s.embedder)
	index.Build(ctx, articles)
	s.local.Store(index)
	return index
}

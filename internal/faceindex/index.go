// Package faceindex keeps an approximate nearest-neighbor index over all
// enrolled embeddings. It exists for one job: spotting a face that is
// already enrolled under a different account before a new enrollment is
// accepted. Authentication never consults it; the exhaustive scan in the
// match package stays the single source of truth for login decisions.
package faceindex

import (
	"sync"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
)

// maxNeighbors is the HNSW M parameter.
const maxNeighbors = 16

// Hit is the closest indexed face to a query embedding.
type Hit struct {
	FaceID     uuid.UUID
	UserID     uuid.UUID
	Similarity float64
}

type entry struct {
	faceID uuid.UUID
	userID uuid.UUID
}

// Index is a thread-safe HNSW graph over enrolled face embeddings,
// keyed by face ID.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
	faces map[string]entry
}

func New() *Index {
	return &Index{
		faces: make(map[string]entry),
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors)
	g.Distance = hnsw.CosineDistance
	return g
}

// Rebuild replaces the whole index with the given faces. Faces without
// an embedding are skipped.
func (ix *Index) Rebuild(faces []domain.Face) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(faces) == 0 {
		ix.graph = nil
		ix.faces = make(map[string]entry)
		return
	}

	g := newGraph()
	ix.faces = make(map[string]entry, len(faces))

	for i := range faces {
		face := &faces[i]
		if len(face.Embedding) == 0 {
			continue
		}

		key := face.ID.String()
		g.Add(hnsw.MakeNode(key, toFloat32(face.Embedding)))
		ix.faces[key] = entry{faceID: face.ID, userID: face.UserID}
	}

	ix.graph = g
}

// Add inserts one face into the index.
func (ix *Index) Add(face domain.Face) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(face.Embedding) == 0 {
		return
	}

	if ix.graph == nil {
		ix.graph = newGraph()
	}

	key := face.ID.String()
	ix.graph.Add(hnsw.MakeNode(key, toFloat32(face.Embedding)))
	ix.faces[key] = entry{faceID: face.ID, userID: face.UserID}
}

// RemoveUser drops every face belonging to the user from lookups. HNSW
// has no true deletion, so the graph nodes stay until the next Rebuild
// and Nearest filters them out.
func (ix *Index) RemoveUser(userID uuid.UUID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for key, e := range ix.faces {
		if e.userID == userID {
			delete(ix.faces, key)
		}
	}
}

// Nearest returns the closest indexed face to the query, excluding faces
// owned by excludeUser. Returns false when the index has nothing to
// offer.
func (ix *Index) Nearest(embedding []float64, excludeUser uuid.UUID) (Hit, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.graph == nil || len(ix.faces) == 0 {
		return Hit{}, false
	}

	// Ask for a handful of neighbors so the exclusion filters still
	// leave a candidate.
	neighbors := ix.graph.Search(toFloat32(embedding), 8)

	for _, n := range neighbors {
		e, ok := ix.faces[n.Key]
		if !ok {
			// Node survived a RemoveUser; ignore it.
			continue
		}
		if e.userID == excludeUser {
			continue
		}

		return Hit{
			FaceID:     e.faceID,
			UserID:     e.userID,
			Similarity: 1 - float64(hnsw.CosineDistance(toFloat32(embedding), n.Value)),
		}, true
	}

	return Hit{}, false
}

// Count returns the number of live entries.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.faces)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

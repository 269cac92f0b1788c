package embedding

import (
	"math"
)

// maxUnitDistance is the largest Euclidean distance used to map distance
// onto a similarity in [0, 1]. Unit vectors can be up to 2.0 apart, but
// face embeddings from the same pipeline never approach that; sqrt(2) (two
// orthogonal unit vectors) is the practical ceiling, and anything beyond it
// saturates to zero similarity.
var maxUnitDistance = math.Sqrt2

// Weights controls how the individual metrics blend into the composite
// similarity. They are expected to sum to 1.
type Weights struct {
	Cosine    float64 `yaml:"cosine"`
	Euclidean float64 `yaml:"euclidean"`
	Pearson   float64 `yaml:"pearson"`
}

// DefaultWeights returns the blend used in production: cosine dominates,
// Euclidean proximity refines it and Pearson contributes a small
// shape-agreement bonus.
func DefaultWeights() Weights {
	return Weights{
		Cosine:    0.6,
		Euclidean: 0.3,
		Pearson:   0.1,
	}
}

// Scores carries every metric computed during one comparison so that
// callers can log and audit the full breakdown, not just the blended
// result.
type Scores struct {
	Cosine    float64 `json:"cosine"`
	Euclidean float64 `json:"euclidean"`
	Pearson   float64 `json:"pearson"`
	Composite float64 `json:"composite"`
}

// Engine computes similarity between two embeddings from multiple angles
// and blends them into a single composite score. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates a similarity engine with the given metric weights.
func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// Score compares two embeddings and returns the full metric breakdown.
// Both vectors are normalized to unit length before any metric is
// computed. A nil operand or any dimension other than Dim yields all-zero
// scores rather than an error: callers treat that as "no similarity".
func (e *Engine) Score(a, b []float64) Scores {
	if len(a) != Dim || len(b) != Dim {
		return Scores{}
	}

	na, _ := Normalize(a)
	nb, _ := Normalize(b)

	cos := cosineSimilarity(na, nb)
	euc := euclideanSimilarity(na, nb)
	pea := pearsonCorrelation(na, nb)

	composite := e.weights.Cosine*cos +
		e.weights.Euclidean*euc +
		e.weights.Pearson*math.Max(0, pea)

	return Scores{
		Cosine:    cos,
		Euclidean: euc,
		Pearson:   pea,
		Composite: clamp01(composite),
	}
}

// Similarity returns only the composite score for two embeddings.
func (e *Engine) Similarity(a, b []float64) float64 {
	return e.Score(a, b).Composite
}

// cosineSimilarity calculates the cosine of the angle between two vectors.
// Returns 0.0 if either vector has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// euclideanSimilarity maps the Euclidean distance between two unit vectors
// onto [0, 1], where 1 means identical and 0 means at or beyond
// maxUnitDistance apart.
func euclideanSimilarity(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Max(0, 1-math.Sqrt(sum)/maxUnitDistance)
}

// pearsonCorrelation calculates the linear correlation between the two
// component sequences. Returns 0.0 if either sequence has zero variance.
func pearsonCorrelation(a, b []float64) float64 {
	n := float64(len(a))

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0.0
	}

	return cov / math.Sqrt(varA*varB)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

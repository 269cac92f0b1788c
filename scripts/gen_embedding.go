package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// gen_embedding.go - Utility to generate a deterministic synthetic
// 128-dimension unit embedding from a seed string, for exercising the API
// and `facectl match score` without a vision pipeline.
//
// Usage:
//   go run scripts/gen_embedding.go <seed> > probe.json
//
// The same seed always yields the same embedding; different seeds yield
// clearly dissimilar ones.

const dim = 128

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/gen_embedding.go <seed>")
		os.Exit(1)
	}

	hash := sha256.Sum256([]byte(os.Args[1]))

	v := make([]float64, dim)
	var norm float64
	for i := range v {
		v[i] = float64(hash[i%len(hash)])/255.0*2 - 1
		norm += v[i] * v[i]
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}

	out, err := json.Marshal(map[string][]float64{"embedding": v})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

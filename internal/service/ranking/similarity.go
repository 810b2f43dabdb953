// Package ranking implements the hybrid scoring and result-selection
// pipeline: embedding similarity combined with keyword/genre overlap,
// followed by a top-band shuffle that keeps repeated identical queries
// from returning identical picks.
package ranking

import "math"

// CosineSimilarity returns dot(a,b)/(|a||b|). Vectors of mismatched
// length or zero norm yield 0 rather than NaN; misshapen provider output
// must never crash a request.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

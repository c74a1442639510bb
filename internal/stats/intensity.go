package stats

import "math"

// Bucket is a closed rep range. Max of math.MaxInt means unbounded.
type Bucket struct {
	Label string
	Min   int
	Max   int
}

// OpenEnded reports whether the bucket has no upper bound.
func (b Bucket) OpenEnded() bool { return b.Max == math.MaxInt }

// Buckets are checked in order; the first match wins.
var Buckets = []Bucket{
	{Label: "5-8", Min: 5, Max: 8},
	{Label: "8-12", Min: 9, Max: 12},
	{Label: "12-15", Min: 13, Max: 15},
	{Label: "15+", Min: 16, Max: math.MaxInt},
}

// BucketCount is the number of completed sets that fell in a bucket.
type BucketCount struct {
	Label string `json:"label"`
	Sets  int    `json:"sets"`
}

// Classify returns the label of the bucket reps falls in, or false when no
// bucket matches.
func Classify(reps int) (string, bool) {
	for _, b := range Buckets {
		if reps >= b.Min && reps <= b.Max {
			return b.Label, true
		}
	}
	return "", false
}

// Distribute counts reps into every bucket, in bucket order. Unmatched reps are dropped.
func Distribute(reps []int) []BucketCount {
	out := make([]BucketCount, len(Buckets))
	idx := make(map[string]int, len(Buckets))
	for i, b := range Buckets {
		out[i] = BucketCount{Label: b.Label}
		idx[b.Label] = i
	}
	for _, r := range reps {
		if label, ok := Classify(r); ok {
			out[idx[label]].Sets++
		}
	}
	return out
}

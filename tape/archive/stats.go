package archive

import (
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one decoded shard for epoch sizing and logging.
type Stats struct {
	NumExamples int
	TotalTokens int
	MeanLength  float64
	StdLength   float64
}

// Stats computes sequence-length statistics over the shard.
func (a *Archive) Stats() Stats {
	lengths := make([]float64, len(a.Lengths))
	for i, l := range a.Lengths {
		lengths[i] = float64(l)
	}
	mean, std := stat.MeanStdDev(lengths, nil)
	return Stats{
		NumExamples: a.NumExamples(),
		TotalTokens: a.Tokens.TotalTokens(),
		MeanLength:  mean,
		StdLength:   std,
	}
}

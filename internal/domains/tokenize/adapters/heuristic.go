package adapters

import "strings"

// HeuristicCounter estimates tokens as ceil(bytes/4) of the trimmed text.
// It is not model-accurate; it is a fast, stable sizing metric.
type HeuristicCounter struct{}

func NewHeuristicCounter() HeuristicCounter { return HeuristicCounter{} }

func (HeuristicCounter) Count(text string) (int, error) {
	n := len(strings.TrimSpace(text))
	return (n + 3) / 4, nil
}

func (HeuristicCounter) Name() string { return SchemeHeuristic }

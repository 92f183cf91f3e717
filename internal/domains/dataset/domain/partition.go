package domain

import (
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

// SourceFile is a collected file loaded as text and counted.
type SourceFile struct {
	RelPath    string
	Content    string
	TokenCount int
}

// ValidateRatio rejects NaN and ratios outside [0.0, 1.0].
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return errors.NewInvalidRatio(ratio)
	}
	return nil
}

// ValidationCount is the number of files (out of n) that go to validation:
// n*ratio rounded half away from zero.
func ValidationCount(n int, ratio float64) int {
	k := int(math.Round(float64(n) * ratio))
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

// RankKey orders files for validation selection. It depends only on the
// seed and the relative path.
func RankKey(seed string, relPath string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(seed)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(relPath)
	return d.Sum64()
}

// Partition splits files into training and validation. The ValidationCount
// files with the smallest rank keys (ties broken by path) form validation.
// Both partitions keep the input order.
func Partition(files []SourceFile, ratio float64, seed string) (training []SourceFile, validation []SourceFile, err error) {
	if err := ValidateRatio(ratio); err != nil {
		return nil, nil, err
	}

	k := ValidationCount(len(files), ratio)

	type ranked struct {
		idx int
		key uint64
	}
	order := make([]ranked, len(files))
	for i, f := range files {
		order[i] = ranked{idx: i, key: RankKey(seed, f.RelPath)}
	}
	sort.Slice(order, func(a, b int) bool {
		if order[a].key != order[b].key {
			return order[a].key < order[b].key
		}
		return files[order[a].idx].RelPath < files[order[b].idx].RelPath
	})

	inValidation := make([]bool, len(files))
	for _, r := range order[:k] {
		inValidation[r.idx] = true
	}

	training = make([]SourceFile, 0, len(files)-k)
	validation = make([]SourceFile, 0, k)
	for i, f := range files {
		if inValidation[i] {
			validation = append(validation, f)
		} else {
			training = append(training, f)
		}
	}
	return training, validation, nil
}

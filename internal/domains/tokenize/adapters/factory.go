package adapters

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tunegen/tunegen/internal/domains/tokenize/ports"
	"github.com/tunegen/tunegen/internal/platform/errors"
	"github.com/tunegen/tunegen/internal/platform/policy"
)

const (
	SchemeWhitespace = "whitespace"
	SchemeHeuristic  = "heuristic"
	SchemeCL100K     = "cl100k_base"
	SchemeO200K      = "o200k_base"
)

var bpeSchemes = map[string]bool{
	SchemeCL100K: true,
	SchemeO200K:  true,
}

// Schemes lists the accepted scheme names.
func Schemes() []string {
	out := []string{SchemeWhitespace, SchemeHeuristic}
	for s := range bpeSchemes {
		out = append(out, s)
	}
	sort.Strings(out[2:])
	return out
}

// New builds the counter for scheme. BPE schemes may download their rank
// files, so they are subject to the network policy.
func New(scheme string, pol policy.Policy) (ports.Counter, error) {
	s := strings.ToLower(strings.TrimSpace(scheme))
	switch {
	case s == SchemeWhitespace:
		return NewWhitespaceCounter(), nil
	case s == SchemeHeuristic:
		return NewHeuristicCounter(), nil
	case bpeSchemes[s]:
		if err := pol.RequireHost("tokenizer "+s, bpeHost); err != nil {
			return nil, err
		}
		c, err := NewTiktokenCounter(s)
		if err != nil {
			return nil, errors.NewConfig("tokenizer "+s+" is unavailable", err)
		}
		return c, nil
	default:
		return nil, errors.NewConfig("unknown tokenizer scheme "+strconv.Quote(scheme)+"; expected one of "+strings.Join(Schemes(), ", "), nil)
	}
}

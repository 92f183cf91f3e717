package domain

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"github.com/tunegen/tunegen/internal/platform/glob"
)

// IgnoreFileName is the per-directory ignore file honored by the scanner.
const IgnoreFileName = ".gitignore"

// Rule is one parsed gitignore line.
//
// Base is the POSIX directory (relative to the scan root, "" for the root)
// holding the ignore file; the rule only applies below it.
type Rule struct {
	Base     string
	Pattern  string
	Negate   bool
	DirOnly  bool
	Anchored bool

	re *regexp.Regexp
}

// ParseIgnoreFile parses the contents of base/.gitignore.
func ParseIgnoreFile(base string, data []byte) []Rule {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return ParseRules(base, strings.Split(string(data), "\n"))
}

// ParseRules parses gitignore lines. Lines that do not form a pattern and
// patterns that fail to compile are dropped.
func ParseRules(base string, lines []string) []Rule {
	var out []Rule
	for _, ln := range lines {
		if r, ok := parseRule(base, ln); ok {
			out = append(out, r)
		}
	}
	return out
}

func parseRule(base string, line string) (Rule, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	// Trailing spaces are dropped unless escaped.
	for strings.HasSuffix(line, " ") && !strings.HasSuffix(line, `\ `) {
		line = line[:len(line)-1]
	}

	r := Rule{Base: strings.Trim(base, "/")}

	switch {
	case strings.HasPrefix(line, "!"):
		r.Negate = true
		line = line[1:]
	case strings.HasPrefix(line, `\!`), strings.HasPrefix(line, `\#`):
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		r.DirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if line == "" {
		return Rule{}, false
	}

	// A separator at the start or middle anchors the pattern to Base.
	if strings.Contains(line, "/") {
		r.Anchored = true
		line = strings.TrimLeft(line, "/")
		if line == "" {
			return Rule{}, false
		}
	}

	re, err := glob.Compile(line)
	if err != nil {
		return Rule{}, false
	}
	r.Pattern = line
	r.re = re
	return r, true
}

// Matches reports whether rel (POSIX, relative to the scan root) is selected by the rule.
func (r Rule) Matches(rel string, isDir bool) bool {
	if r.re == nil {
		return false
	}
	if r.DirOnly && !isDir {
		return false
	}
	sub := rel
	if r.Base != "" {
		if !strings.HasPrefix(rel, r.Base+"/") {
			return false
		}
		sub = rel[len(r.Base)+1:]
	}
	if r.Anchored {
		return r.re.MatchString(sub)
	}
	return r.re.MatchString(path.Base(sub))
}

// Matcher evaluates rules in insertion order; the last matching rule wins.
// Callers add shallower ignore files before deeper ones, so deeper files
// override their parents.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules ...Rule) *Matcher {
	m := &Matcher{}
	m.Add(rules...)
	return m
}

func (m *Matcher) Add(rules ...Rule) {
	m.rules = append(m.rules, rules...)
}

func (m *Matcher) Len() int {
	return len(m.rules)
}

func (m *Matcher) Ignored(rel string, isDir bool) bool {
	ignored := false
	for _, r := range m.rules {
		if r.Matches(rel, isDir) {
			ignored = !r.Negate
		}
	}
	return ignored
}

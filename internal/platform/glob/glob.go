package glob

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Match checks if a POSIX-style relPath matches a gitignore-flavored glob pattern.
// Invalid patterns never match.
func Match(relPath string, pattern string) bool {
	re, err := Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(filepath.ToSlash(relPath))
}

// Compile translates a glob into an anchored regular expression.
//
//   - *      matches within a path segment (no '/')
//   - ?      matches a single non-'/' character
//   - [...]  character class; [!...] and [^...] negate, [:alpha:] style
//     POSIX classes are allowed inside
//   - **/    leading: any number of directories (including none)
//   - /**    trailing: everything inside
//   - /**/   middle: zero or more directories
//   - \x     matches x literally
//
// Any other run of asterisks behaves like a single '*'.
func Compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(globToRegex(filepath.ToSlash(pattern)))
}

func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")

	runes := []rune(glob)
	n := len(runes)
	for i := 0; i < n; i++ {
		ch := runes[i]
		switch ch {
		case '*':
			j := i
			for j < n && runes[j] == '*' {
				j++
			}
			double := j-i >= 2
			atSegStart := i == 0 || runes[i-1] == '/'
			atSegEnd := j == n || runes[j] == '/'
			if double && atSegStart && atSegEnd {
				switch {
				case j == n && i == 0:
					b.WriteString(".*")
				case j == n:
					// "a/**": the trailing slash was already written.
					b.WriteString(".*")
				default:
					// "**/" anywhere: zero or more whole directories.
					b.WriteString("(?:[^/]*/)*")
					j++
				}
			} else {
				b.WriteString("[^/]*")
			}
			i = j - 1
		case '?':
			b.WriteString("[^/]")
		case '[':
			class, next, ok := readClass(runes, i)
			if !ok {
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			b.WriteString(class)
			i = next
		case '\\':
			if i+1 < n {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
				continue
			}
			b.WriteString(regexp.QuoteMeta("\\"))
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}

	b.WriteString("$")
	return b.String()
}

// posixClassEnd reports the index of the closing ']' of a [:name:] class
// starting at runes[start] == '['.
func posixClassEnd(runes []rune, start int) (int, bool) {
	if start+1 >= len(runes) || runes[start+1] != ':' {
		return 0, false
	}
	for j := start + 2; j+1 < len(runes); j++ {
		if runes[j] == ':' && runes[j+1] == ']' {
			return j + 1, j > start+2
		}
		if !unicode.IsLetter(runes[j]) {
			return 0, false
		}
	}
	return 0, false
}

// readClass parses a bracket expression starting at runes[start] == '['.
// It returns the regex class, the index of the closing ']', and false when unterminated.
func readClass(runes []rune, start int) (string, int, bool) {
	i := start + 1
	var b strings.Builder
	b.WriteString("[")
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		b.WriteString("^/")
		i++
	}
	first := true
	for ; i < len(runes); i++ {
		ch := runes[i]
		if ch == ']' && !first {
			b.WriteString("]")
			return b.String(), i, true
		}
		first = false
		switch ch {
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			// [:name:] is passed through; the regexp parser rejects unknown names.
			if end, ok := posixClassEnd(runes, i); ok {
				b.WriteString(string(runes[i : end+1]))
				i = end
				continue
			}
			b.WriteString(`\[`)
		case ']', '^':
			b.WriteString(`\`)
			b.WriteRune(ch)
		default:
			b.WriteRune(ch)
		}
	}
	return "", start, false
}

// Escape quotes the glob metacharacters in s so that Compile(Escape(s))
// matches s literally.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

package soa

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"soa-backend/internal/models"
)

var (
	nameSuffixes   = map[string]bool{"JR": true, "SR": true, "III": true, "IV": true, "V": true}
	ampersandPair  = regexp.MustCompile(`(\w+)\s*&\s*(\w+)`)
	prefixIllegal  = regexp.MustCompile(`[^A-Za-z0-9,& ]+`)
	pathIllegal    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]+`)
	spaceRun       = regexp.MustCompile(`\s+`)
	maxSafeNameLen = 100
)

func isSuffix(word string) bool {
	return nameSuffixes[strings.ToUpper(strings.TrimSuffix(word, "."))]
}

// ascii strips accents so "Peña" becomes "Pena"
func ascii(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ShortPrefix abbreviates a person or agency name for file names.
// "Dela Cruz, Juan Jr." gives "Dela Cruz, Juan"; otherwise the first two
// words are kept, with "A & B" counted as one word.
func ShortPrefix(name string) string {
	name = strings.TrimSpace(ascii(name))
	var prefix string
	if surname, rest, ok := strings.Cut(name, ","); ok {
		prefix = strings.TrimSpace(surname)
		for _, w := range strings.Fields(rest) {
			if !isSuffix(w) {
				prefix += ", " + w
				break
			}
		}
	} else {
		joined := ampersandPair.ReplaceAllString(name, "${1}_&_${2}")
		words := strings.Fields(joined)
		if len(words) > 1 && isSuffix(words[len(words)-1]) {
			words = words[:len(words)-1]
		}
		if len(words) > 2 {
			words = words[:2]
		}
		prefix = strings.ReplaceAll(strings.Join(words, " "), "_&_", " & ")
	}
	prefix = prefixIllegal.ReplaceAllString(prefix, "")
	prefix = strings.Trim(spaceRun.ReplaceAllString(prefix, " "), " ,")
	if prefix == "" {
		return "Unnamed"
	}
	return prefix
}

// SafeName removes characters that are illegal in file names and limits
// the length
func SafeName(name string) string {
	s := pathIllegal.ReplaceAllString(name, "")
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	s = strings.TrimRight(s, ". ")
	s = strings.TrimSpace(truncate(s, maxSafeNameLen))
	if s == "" {
		return "Unnamed"
	}
	return s
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// SafeFolder sanitizes each segment of a slash separated folder path
func SafeFolder(folder string) string {
	var parts []string
	for _, seg := range strings.Split(strings.ReplaceAll(folder, "\\", "/"), "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, SafeName(seg))
	}
	return path.Join(parts...)
}

// Routes places documents into folders by entity name
type Routes map[string]string

// NewRoutes normalizes route keys and sanitizes folders
func NewRoutes(m map[string]string) Routes {
	r := make(Routes, len(m))
	for name, folder := range m {
		if f := SafeFolder(folder); f != "" {
			r[NormalizeName(name)] = f
		}
	}
	return r
}

// Folder returns the first routed folder among names, "" for the root
func (r Routes) Folder(names ...string) string {
	for _, n := range names {
		if f, ok := r[NormalizeName(n)]; ok {
			return f
		}
	}
	return ""
}

func (p *Pipeline) baseName(entity string) string {
	if p.ShortNames {
		return ShortPrefix(entity)
	}
	return SafeName(ascii(entity))
}

func lastToken(entity string) string {
	words := strings.Fields(prefixIllegal.ReplaceAllString(ascii(entity), " "))
	for len(words) > 0 && isSuffix(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Trim(words[len(words)-1], ",&")
}

// AssignNames gives every document a file name unique within its folder.
// Documents are visited in a stable order so input row order never
// changes which document keeps the plain name. Collisions get the branch
// in parentheses, then the entity's last name token, then a counter.
// docs is reordered into naming order.
func (p *Pipeline) AssignNames(docs []*models.Document, asOf time.Time) {
	type keyed struct {
		doc  *models.Document
		base string
	}
	items := make([]keyed, len(docs))
	for i, d := range docs {
		items[i] = keyed{doc: d, base: p.baseName(d.Entity)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.doc.Folder != b.doc.Folder {
			return a.doc.Folder < b.doc.Folder
		}
		if a.base != b.base {
			return a.base < b.base
		}
		if a.doc.Merged != b.doc.Merged {
			return a.doc.Merged
		}
		return a.doc.Key < b.doc.Key
	})

	used := make(map[string]bool, len(docs))
	for i, it := range items {
		d := it.doc
		var candidates []string
		candidates = append(candidates, it.base)
		qualified := it.base
		if d.Branch != "" {
			qualified = fmt.Sprintf("%s (%s)", it.base, SafeName(ascii(d.Branch)))
			candidates = append(candidates, qualified)
		}
		if tok := lastToken(d.Entity); tok != "" {
			candidates = append(candidates, qualified+" "+tok)
		}

		assigned := false
		for _, c := range candidates {
			if name := p.FileName(c, asOf); !used[strings.ToLower(path.Join(d.Folder, name))] {
				d.FileName = name
				assigned = true
				break
			}
		}
		for n := 2; !assigned; n++ {
			name := p.FileName(fmt.Sprintf("%s (%d)", candidates[len(candidates)-1], n), asOf)
			if !used[strings.ToLower(path.Join(d.Folder, name))] {
				d.FileName = name
				assigned = true
			}
		}
		used[strings.ToLower(d.RelPath())] = true
		docs[i] = d
	}
}

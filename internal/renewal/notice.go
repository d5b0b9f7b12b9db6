// Package renewal finds renewal notices in bulk scanned policy PDFs and
// splits them into one small PDF per insured.
package renewal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PolicyPrefixes are the lines of business that get renewal notices
var PolicyPrefixes = []string{"AH", "CA", "CG", "CY", "EN", "FG", "FI", "HL", "MC", "MD", "MN", "MR", "PF", "SU"}

const maxFolderLen = 196

var (
	prefixAlt = func() string {
		parts := make([]string, len(PolicyPrefixes))
		for i, p := range PolicyPrefixes {
			parts[i] = p + "-"
		}
		return strings.Join(parts, "|")
	}()

	policyRe  = regexp.MustCompile(`(?i)((?:` + prefixAlt + `)[A-Z0-9\-]+):\s*Policy\s*No`)
	agentRe   = regexp.MustCompile(`(?is)Agent\s*:(.*?)(?:Remarks\s*:|$)`)
	insuredRe = regexp.MustCompile(`(?is)Insured\s*:(.*?)(?:Plate\s*No\.|(?:` + prefixAlt + `)[A-Z0-9\-]+:\s*Policy\s*No|$)`)
	spaces    = regexp.MustCompile(`\s+`)
	notice    = "RENEWAL NOTICE"
)

// andOrMarkers flag joint insureds, whose notices have no notice cover page
var andOrMarkers = []string{"&/OR", "AND/OR", "&/ OR", "AND/ OR"}

// Notice is one renewal notice found in a source PDF
type Notice struct {
	Policy  string
	Agent   string
	Insured string
	// Pages are 1 based, ascending and unique
	Pages []int
}

// FileName is "<insured> <policy>.pdf", sanitized
func (n Notice) FileName() string {
	return SanitizeFolder(TruncateAtInc(n.Insured)+" "+n.Policy) + ".pdf"
}

// AgentFolder and InsuredFolder name the per agent output tree
func (n Notice) AgentFolder() string {
	return SanitizeFolder(n.Agent)
}

func (n Notice) InsuredFolder() string {
	return SanitizeFolder(TruncateAtInc(n.Insured))
}

// SupportedPolicy reports whether the policy number has a known prefix
func SupportedPolicy(policy string) bool {
	prefix, _, ok := strings.Cut(policy, "-")
	if !ok {
		return false
	}
	prefix = strings.ToUpper(prefix)
	for _, p := range PolicyPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// PolicyNumber finds "<PREFIX>-...: Policy No" in page text
func PolicyNumber(text string) string {
	m := policyRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// AgentName reads the text between "Agent:" and "Remarks:"
func AgentName(text string) string {
	m := agentRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(spaces.ReplaceAllString(strings.TrimSpace(m[1]), " "))
}

// InsuredName reads the text after "Insured:" up to the plate number or
// the policy marker
func InsuredName(text string) string {
	m := insuredRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(spaces.ReplaceAllString(m[1], " "))
}

// TruncateAtInc cuts corporate names after "INC."
func TruncateAtInc(name string) string {
	if i := strings.Index(strings.ToUpper(name), "INC."); i >= 0 {
		return strings.TrimSpace(name[:i+4])
	}
	return name
}

// HasImportantNotice is false for joint insureds
func HasImportantNotice(insured string) bool {
	upper := strings.ToUpper(insured)
	for _, m := range andOrMarkers {
		if strings.Contains(upper, m) {
			return false
		}
	}
	return true
}

// SanitizeFolder replaces path characters with "_" and limits the length
func SanitizeFolder(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimRight(strings.TrimSpace(name), ".")
	if len(name) <= maxFolderLen {
		return name
	}
	n := maxFolderLen
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}

// MonthYear finds a month name or abbreviation with a 4 digit year within
// two words of it, e.g. "Renewals Nov 2026 batch.pdf"
func MonthYear(filename string) (time.Month, int, bool) {
	base := filename
	if i := strings.LastIndex(strings.ToLower(base), ".pdf"); i >= 0 {
		base = base[:i] + base[i+4:]
	}
	words := strings.Fields(base)
	for i, w := range words {
		month, ok := parseMonth(w)
		if !ok {
			continue
		}
		for j := max(0, i-2); j < min(len(words), i+3); j++ {
			if len(words[j]) != 4 {
				continue
			}
			if year, err := strconv.Atoi(words[j]); err == nil && year > 0 {
				return month, year, true
			}
		}
	}
	return 0, 0, false
}

func parseMonth(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if w == name || w == name[:3] {
			return m, true
		}
	}
	return 0, false
}

// BatchFolder is the top folder of an extraction, "Renewal Notices November 2026"
func BatchFolder(month time.Month, year int) string {
	return fmt.Sprintf("Renewal Notices %s %d", month, year)
}

// PageSource exposes the text of each page of a document
type PageSource interface {
	NumPages() int
	// PageText returns the text of page i, 1 based
	PageText(i int) (string, error)
}

func agentFrom(src PageSource, page int) (string, int) {
	if text, err := src.PageText(page); err == nil {
		if name := AgentName(text); name != "" {
			return name, page
		}
	}
	if page+1 <= src.NumPages() {
		if text, err := src.PageText(page + 1); err == nil {
			if name := AgentName(text); name != "" {
				return name, page + 1
			}
		}
	}
	return "", 0
}

// Scan finds every renewal notice in src. A notice is kept with the page
// before it (the important notice cover) unless the insured is a joint
// insured, and with the next page when the agent is printed there.
func Scan(src PageSource) []Notice {
	var out []Notice
	for i := 1; i <= src.NumPages(); i++ {
		text, err := src.PageText(i)
		if err != nil || !strings.Contains(strings.ToUpper(text), notice) {
			continue
		}
		policy := PolicyNumber(text)
		if policy == "" || !SupportedPolicy(policy) {
			continue
		}
		agent, agentPage := agentFrom(src, i)
		insured := InsuredName(text)
		if agent == "" || insured == "" {
			continue
		}

		var pages []int
		if HasImportantNotice(insured) && i > 1 {
			pages = append(pages, i-1)
		}
		pages = append(pages, i)
		if agentPage != i {
			pages = append(pages, agentPage)
		}
		out = append(out, Notice{Policy: policy, Agent: agent, Insured: insured, Pages: pages})
	}
	return out
}

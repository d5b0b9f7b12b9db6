package renewal

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages []string

func (f fakePages) NumPages() int { return len(f) }

func (f fakePages) PageText(i int) (string, error) {
	if f[i-1] == "!" {
		return "", errors.New("broken page")
	}
	return f[i-1], nil
}

func TestPolicyNumber(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "RENEWAL NOTICE\nMC-HO-2026-0001: Policy No. 123", want: "MC-HO-2026-0001"},
		{text: "fi-cebu-77:  policy no", want: "fi-cebu-77"},
		{text: "XX-HO-1: Policy No", want: ""},
		{text: "no policy here", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyNumber(tt.text))
		})
	}
}

func TestNames(t *testing.T) {
	text := "RENEWAL NOTICE\nInsured: ACME TRADING\n  INC. (MAKATI)\nPlate No. ABC 123\nAgent:  MARIA\n SANTOS Remarks: rush"
	assert.Equal(t, "ACME TRADING INC. (MAKATI)", InsuredName(text))
	assert.Equal(t, "MARIA SANTOS", AgentName(text))
	assert.Equal(t, "", AgentName("no agent"))

	stopAtPolicy := "Insured: JUAN CRUZ MC-HO-1: Policy No"
	assert.Equal(t, "JUAN CRUZ", InsuredName(stopAtPolicy))
	assert.Equal(t, "ANA", AgentName("Agent: ANA"))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "ACME TRADING INC.", TruncateAtInc("ACME TRADING INC. (MAKATI)"))
	assert.Equal(t, "JUAN CRUZ", TruncateAtInc("JUAN CRUZ"))

	assert.True(t, HasImportantNotice("JUAN CRUZ"))
	assert.False(t, HasImportantNotice("JUAN &/or ANA"))
	assert.False(t, HasImportantNotice("JUAN AND/ OR ANA"))

	assert.Equal(t, "A_B_C", SanitizeFolder(" A/B:C. "))
	assert.Len(t, SanitizeFolder(string(make([]byte, 300))), maxFolderLen)
	insured := SanitizeFolder(strings.Repeat("保", 70))
	assert.True(t, utf8.ValidString(insured), "cut falls on a rune boundary")
	assert.Equal(t, strings.Repeat("保", 65), insured)
	assert.Equal(t, strings.Repeat("A", 195), SanitizeFolder(strings.Repeat("A", 195)+"—Corp"))

	assert.True(t, SupportedPolicy("mc-1"))
	assert.False(t, SupportedPolicy("MC"))
	assert.False(t, SupportedPolicy("ZZ-1"))

	n := Notice{Policy: "MC-1", Agent: "MARIA/SANTOS", Insured: "ACME INC. BRANCH"}
	assert.Equal(t, "ACME INC. MC-1.pdf", n.FileName())
	assert.Equal(t, "MARIA_SANTOS", n.AgentFolder())
	assert.Equal(t, "ACME INC", n.InsuredFolder())
}

func TestMonthYear(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		year  int
		ok    bool
	}{
		{name: "Renewals November 2026.pdf", month: time.November, year: 2026, ok: true},
		{name: "2026 Nov batch 3.PDF", month: time.November, year: 2026, ok: true},
		{name: "dec scans 2025.pdf", month: time.December, year: 2025, ok: true},
		{name: "scan may 1 2 3 2026.pdf", ok: false},
		{name: "scan.pdf", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, y, ok := MonthYear(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.month, m)
				assert.Equal(t, tt.year, y)
			}
		})
	}
	assert.Equal(t, "Renewal Notices November 2026", BatchFolder(time.November, 2026))
}

func TestScan(t *testing.T) {
	src := fakePages{
		"IMPORTANT NOTICE cover",
		"Renewal Notice MC-HO-1: Policy No Insured: ACME INC. Plate No. X Agent: MARIA Remarks: -",
		"RENEWAL NOTICE FI-HO-2: Policy No Insured: JUAN &/OR ANA Plate No. Y",
		"Agent: PEDRO Remarks: -",
		"RENEWAL NOTICE ZZ-HO-3: Policy No Insured: SKIPPED Agent: X Remarks:",
		"RENEWAL NOTICE MC-HO-4: Policy No Insured: NO AGENT Plate No. Z",
		"!",
	}
	notices := Scan(src)
	require.Len(t, notices, 2)

	assert.Equal(t, Notice{Policy: "MC-HO-1", Agent: "MARIA", Insured: "ACME INC.", Pages: []int{1, 2}}, notices[0])
	assert.Equal(t, Notice{Policy: "FI-HO-2", Agent: "PEDRO", Insured: "JUAN &/OR ANA", Pages: []int{3, 4}}, notices[1])
}

func TestScan_FirstPageHasNoCover(t *testing.T) {
	notices := Scan(fakePages{"RENEWAL NOTICE CA-1: Policy No Insured: LONE Plate No. Agent: A Remarks:"})
	require.Len(t, notices, 1)
	assert.Equal(t, []int{1}, notices[0].Pages)
}

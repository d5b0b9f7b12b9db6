package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soa-backend/internal/models"
)

func TestParseReference_MergeForms(t *testing.T) {
	doc := `
direct:
  merge:
    - master: Acme Group
      aliases: ["Acme Insurance, Inc.", ACME Ins Agency]
  folders:
    Acme Group: Key Accounts
premium:
  merge:
    - [ALPHA RE, ALPHA REINSURANCE]
    - [BETA RE]
cash-call:
  merge:
    ZETA RE: [ZETA REINSURANCE]
    ALPHA RE: ALPHA REINS
  rename:
    ZETA REINSURANCE: Zeta Reinsurance Company Ltd.
`
	ref, err := ParseReference([]byte(doc))
	require.NoError(t, err)

	tests := []struct {
		name     string
		pipeline string
		want     []models.MergeGroup
	}{
		{
			name:     "mapping entries",
			pipeline: "direct",
			want:     []models.MergeGroup{{Master: "Acme Group", Aliases: []string{"Acme Insurance, Inc.", "ACME Ins Agency"}}},
		},
		{
			name:     "list entries",
			pipeline: "premium",
			want: []models.MergeGroup{
				{Master: "ALPHA RE", Aliases: []string{"ALPHA REINSURANCE"}},
				{Master: "BETA RE", Aliases: []string{}},
			},
		},
		{
			name:     "master mapping keeps document order",
			pipeline: "cashcall",
			want: []models.MergeGroup{
				{Master: "ZETA RE", Aliases: []string{"ZETA REINSURANCE"}},
				{Master: "ALPHA RE", Aliases: []string{"ALPHA REINS"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, []models.MergeGroup(ref.For(tt.pipeline).Merge))
		})
	}

	assert.Equal(t, map[string]string{"Acme Group": "Key Accounts"}, ref.For("DIRECT").Folders)
	assert.Empty(t, ref.For("renewal").Merge)
	assert.Equal(t, map[string]string{"ZETA REINSURANCE": "Zeta Reinsurance Company Ltd."}, ref.For("cashcall").Rename)
	assert.Nil(t, ref.For("premium").Rename)
}

func TestParseReference_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "scalar merge", doc: "direct:\n  merge: nope\n"},
		{name: "nested aliases", doc: "direct:\n  merge:\n    A: {b: c}\n"},
		{name: "bad yaml", doc: "direct: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReference([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadReference(t *testing.T) {
	ref, err := LoadReference(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, ref)

	ref, err = LoadReference("")
	require.NoError(t, err)
	assert.Empty(t, ref)

	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("premium:\n  folders:\n    ALPHA RE: Alpha\n"), 0o644))
	ref, err = LoadReference(path)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", ref.For("premium").Folders["ALPHA RE"])
}

package soa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soa-backend/internal/models"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, NormalizeName("ACME  Insurance, Inc."), NormalizeName(" acme insurance, inc. "))
	assert.NotEqual(t, NormalizeName("Acme Insurance"), NormalizeName("Acme Insurance Inc"))
}

func TestResolver(t *testing.T) {
	r := NewResolver([]models.MergeGroup{
		{Master: "Acme Group", Aliases: []string{"Acme Insurance, Inc.", "ACME Ins Agency"}},
		{Master: "Beta Group", Aliases: []string{"acme insurance, inc.", "Beta Re"}},
		{Master: "  ", Aliases: []string{"Ignored"}},
	})

	tests := []struct {
		name       string
		lookup     string
		wantMaster string
		wantFound  bool
	}{
		{name: "alias exact", lookup: "Acme Insurance, Inc.", wantMaster: "Acme Group", wantFound: true},
		{name: "alias case and spacing", lookup: "  ACME   ins agency ", wantMaster: "Acme Group", wantFound: true},
		{name: "master is its own member", lookup: "acme group", wantMaster: "Acme Group", wantFound: true},
		{name: "first registration wins", lookup: "ACME INSURANCE, INC.", wantMaster: "Acme Group", wantFound: true},
		{name: "second group", lookup: "Beta Re", wantMaster: "Beta Group", wantFound: true},
		{name: "no substring matching", lookup: "Acme", wantFound: false},
		{name: "no fuzzy matching", lookup: "Acme Insurance Inc", wantFound: false},
		{name: "blank master ignored", lookup: "Ignored", wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := r.FindGroup(tt.lookup)
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantMaster, g.Master)
			}
		})
	}

	masters, aliases := r.Build()
	require.Len(t, masters, 2)
	assert.Equal(t, []string{"Acme Insurance, Inc.", "ACME Ins Agency"}, masters["Acme Group"])
	assert.Equal(t, []string{"Beta Re"}, masters["Beta Group"], "claimed alias is not duplicated")
	assert.Equal(t, "Acme Group", aliases[NormalizeName("acme ins agency")])
}

func TestGroupsFromLists(t *testing.T) {
	groups := GroupsFromLists([][]string{{"ALPHA RE", "ALPHA RE - MANILA"}, {}})
	require.Len(t, groups, 1)
	assert.Equal(t, "ALPHA RE", groups[0].Master)
	assert.Equal(t, []string{"ALPHA RE - MANILA"}, groups[0].Aliases)
}

func TestResolver_ClaimedMasterDropsGroup(t *testing.T) {
	r := NewResolver([]models.MergeGroup{
		{Master: "Acme Group", Aliases: []string{"Beta Group"}},
		{Master: "beta group", Aliases: []string{"Beta Re"}},
	})
	require.Len(t, r.Groups(), 1)
	_, ok := r.FindGroup("Beta Re")
	assert.False(t, ok)
}

func TestResolver_DisplayName(t *testing.T) {
	r := NewResolver([]models.MergeGroup{
		{Master: "OMEGA RE", Aliases: []string{"OMEGA RE HK", "OMEGA RE LABUAN"}},
		{Master: "ZETA RE"},
	}).Rename(map[string]string{
		"omega re labuan": "Omega Labuan",
		"OMEGA RE HK":     "Omega Group",
		"ZETA RE":         "  ",
	})

	g, ok := r.FindGroup("omega re")
	require.True(t, ok)
	assert.Equal(t, "Omega Group", r.DisplayName(g), "first member with a display name wins")

	g, ok = r.FindGroup("ZETA RE")
	require.True(t, ok)
	assert.Equal(t, "ZETA RE", r.DisplayName(g), "blank display names are ignored")
}

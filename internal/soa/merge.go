package soa

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"soa-backend/internal/models"
)

// NormalizeName folds case, Unicode compatibility forms and whitespace so
// that "ACME  Insurance" and "acme insurance" compare equal.
func NormalizeName(name string) string {
	s := norm.NFKC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}

// Resolver answers which merge group, if any, an entity name belongs to.
// Matching is exact after NormalizeName; there is no fuzzy matching.
type Resolver struct {
	groups  []models.MergeGroup
	byAlias map[string]int
	display map[string]string
}

// GroupsFromLists converts alias lists whose first element is the master
func GroupsFromLists(lists [][]string) []models.MergeGroup {
	groups := make([]models.MergeGroup, 0, len(lists))
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		groups = append(groups, models.MergeGroup{Master: l[0], Aliases: l[1:]})
	}
	return groups
}

// NewResolver registers groups in order. The master is a member of its own
// group. A name already claimed by an earlier group is ignored, and a group
// whose master was claimed earlier is dropped.
func NewResolver(groups []models.MergeGroup) *Resolver {
	r := &Resolver{byAlias: make(map[string]int), display: make(map[string]string)}
	for _, g := range groups {
		master := strings.TrimSpace(g.Master)
		if master == "" {
			continue
		}
		if _, taken := r.byAlias[NormalizeName(master)]; taken {
			continue
		}
		idx := len(r.groups)
		eff := models.MergeGroup{Master: master}
		claimed := false
		for i, name := range g.Members() {
			name = strings.TrimSpace(name)
			key := NormalizeName(name)
			if key == "" {
				continue
			}
			if _, taken := r.byAlias[key]; taken {
				continue
			}
			r.byAlias[key] = idx
			claimed = true
			if i > 0 {
				eff.Aliases = append(eff.Aliases, name)
			}
		}
		if !claimed {
			continue
		}
		r.groups = append(r.groups, eff)
	}
	return r
}

// Rename sets the display names of merged statements, keyed by any member
// of a group. The first member of a group with an entry wins.
func (r *Resolver) Rename(names map[string]string) *Resolver {
	for name, display := range names {
		display = strings.TrimSpace(display)
		if display == "" {
			continue
		}
		r.display[NormalizeName(name)] = display
	}
	return r
}

// DisplayName is the statement title of group g
func (r *Resolver) DisplayName(g models.MergeGroup) string {
	for _, m := range g.Members() {
		if d, ok := r.display[NormalizeName(m)]; ok {
			return d
		}
	}
	return g.Master
}

func memberIndex(g models.MergeGroup, key string) int {
	for i, m := range g.Members() {
		if NormalizeName(m) == key {
			return i
		}
	}
	return 0
}

// Groups returns the effective groups in registration order
func (r *Resolver) Groups() []models.MergeGroup {
	return r.groups
}

// Build returns master to aliases and normalized alias to master lookups
func (r *Resolver) Build() (map[string][]string, map[string]string) {
	masterToAliases := make(map[string][]string, len(r.groups))
	for _, g := range r.groups {
		masterToAliases[g.Master] = append([]string(nil), g.Aliases...)
	}
	aliasToMaster := make(map[string]string, len(r.byAlias))
	for key, gi := range r.byAlias {
		aliasToMaster[key] = r.groups[gi].Master
	}
	return masterToAliases, aliasToMaster
}

// FindGroup returns the group containing name
func (r *Resolver) FindGroup(name string) (models.MergeGroup, bool) {
	gi, ok := r.byAlias[NormalizeName(name)]
	if !ok {
		return models.MergeGroup{}, false
	}
	return r.groups[gi], true
}

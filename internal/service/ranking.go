// trustcall-directory-service/internal/service/ranking.go
package service

import (
	"sort"
	"strings"
)

// candidate is one name-search match before scoring.
type candidate struct {
	name       string
	phone      string
	registered bool
}

// rankCandidates orders one source in place: names starting with query (case-insensitive)
// before names that only contain it, then by name and phone in byte order.
func rankCandidates(cands []candidate, query string) {
	needle := strings.ToLower(query)
	tier := func(c candidate) int {
		if strings.HasPrefix(strings.ToLower(c.name), needle) {
			return 0
		}
		return 1
	}
	sort.SliceStable(cands, func(i, j int) bool {
		ti, tj := tier(cands[i]), tier(cands[j])
		if ti != tj {
			return ti < tj
		}
		if cands[i].name != cands[j].name {
			return cands[i].name < cands[j].name
		}
		return cands[i].phone < cands[j].phone
	})
}

// mergeSources concatenates ranked sources, identities first. Sources are never re-ranked
// against each other.
func mergeSources(identities, contacts []candidate) []candidate {
	out := make([]candidate, 0, len(identities)+len(contacts))
	out = append(out, identities...)
	return append(out, contacts...)
}

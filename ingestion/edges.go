package ingestion

import "github.com/poiesic/costar/core"

// DeriveEdges returns one edge per ordered pair of works, self-loops
// included, attributed to contributor. Pairs are produced row-major in the
// order of works and duplicates are not removed.
func DeriveEdges(works []core.Work, contributor core.ID) []core.Edge {
	edges := make([]core.Edge, 0, len(works)*len(works))
	for _, source := range works {
		for _, target := range works {
			edges = append(edges, core.Edge{
				Source:      source.ID,
				Target:      target.ID,
				Contributor: contributor,
			})
		}
	}
	return edges
}

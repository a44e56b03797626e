package ingestion

import (
	"testing"

	"github.com/poiesic/costar/core"
	"github.com/stretchr/testify/assert"
)

func TestDeriveEdges(t *testing.T) {
	tests := []struct {
		name  string
		works []core.Work
		want  []core.Edge
	}{
		{
			name:  "no works",
			works: nil,
			want:  []core.Edge{},
		},
		{
			name:  "single work yields self loop",
			works: []core.Work{{ID: 100}},
			want:  []core.Edge{{Source: 100, Target: 100, Contributor: 7}},
		},
		{
			name:  "pairs in row-major order",
			works: []core.Work{{ID: 1}, {ID: 2}},
			want: []core.Edge{
				{Source: 1, Target: 1, Contributor: 7},
				{Source: 1, Target: 2, Contributor: 7},
				{Source: 2, Target: 1, Contributor: 7},
				{Source: 2, Target: 2, Contributor: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEdges(tt.works, 7))
		})
	}
}

func TestDeriveEdges_SquareCount(t *testing.T) {
	works := []core.Work{{ID: 1}, {ID: 2}, {ID: 3}}
	edges := DeriveEdges(works, 9)

	assert.Len(t, edges, 9)
	for _, e := range edges {
		assert.Equal(t, core.ID(9), e.Contributor)
	}
}

func TestDeriveEdges_KeepsDuplicates(t *testing.T) {
	edges := DeriveEdges([]core.Work{{ID: 5}, {ID: 5}}, 1)

	assert.Len(t, edges, 4)
	for _, e := range edges {
		assert.True(t, e.IsSelfLoop())
	}
}

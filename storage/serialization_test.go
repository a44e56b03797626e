package storage

import (
	"testing"

	"github.com/poiesic/costar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"small ID", core.ID(42)},
		{"large ID", core.ID(9223372036854775807)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.Len(t, data, 8)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestMarshalID_PreservesOrder(t *testing.T) {
	// Badger iterates keys lexicographically; index keys rely on this.
	a := MarshalID(255)
	b := MarshalID(256)
	assert.Less(t, string(a), string(b))
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalContributor(t *testing.T) {
	original := &core.Contributor{ID: 6384, Name: "Keanu Reeves", Index: 7}

	data, err := MarshalContributor(original)
	require.NoError(t, err)

	decoded, err := UnmarshalContributor(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestMarshalUnmarshalWorkAndEdge(t *testing.T) {
	work := &core.Work{ID: 603, Title: "The Matrix"}
	data, err := MarshalWork(work)
	require.NoError(t, err)
	decodedWork, err := UnmarshalWork(data)
	require.NoError(t, err)
	assert.Equal(t, work, decodedWork)

	edge := &core.Edge{Source: 603, Target: 604, Contributor: 6384}
	data, err = MarshalEdge(edge)
	require.NoError(t, err)
	decodedEdge, err := UnmarshalEdge(data)
	require.NoError(t, err)
	assert.Equal(t, edge, decodedEdge)
}

func TestUnmarshal_Empty(t *testing.T) {
	_, err := UnmarshalWork(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
	_, err = UnmarshalEdge([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	chunks := Chunk(items, 3)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3}, chunks[0])
	assert.Equal(t, []int{7}, chunks[2])

	assert.Empty(t, Chunk([]int{}, 3))
	assert.Len(t, Chunk(items, 0), 1)
}

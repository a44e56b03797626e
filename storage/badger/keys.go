package badger

import (
	"encoding/binary"

	"github.com/poiesic/costar/core"
)

// Key prefixes for different data types
const (
	workPrefix             = "wrk:"
	contributorPrefix      = "ctb:"
	contributorIndexPrefix = "ctbidx:"
	contributorSeq         = "ctbseq"
	edgePrefix             = "edg:"
)

// makeWorkKey generates a key for a work by ID.
// Format: prefix + id
func makeWorkKey(id core.ID) []byte {
	return appendUint64([]byte(workPrefix), uint64(id))
}

// makeContributorKey generates a key for a contributor by ID.
func makeContributorKey(id core.ID) []byte {
	return appendUint64([]byte(contributorPrefix), uint64(id))
}

// makeContributorIndexKey generates a key mapping a dense index to a contributor ID.
func makeContributorIndexKey(index int64) []byte {
	return appendUint64([]byte(contributorIndexPrefix), uint64(index))
}

// makeEdgeKey generates a composite key for an edge.
// Format: prefix + source + target
func makeEdgeKey(source, target core.ID) []byte {
	buf := appendUint64([]byte(edgePrefix), uint64(source))
	return appendUint64(buf, uint64(target))
}

// appendUint64 writes v in BigEndian order so lexicographic sort matches numeric sort.
func appendUint64(buf []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(buf, v)
}

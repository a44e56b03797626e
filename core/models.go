package core

import "strconv"

// ID is an external catalog identifier.
// IDs are supplied by the catalog and are stable across runs; zero is never valid.
type ID int64

// String formats the ID in base 10.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Work is a catalog item (for example a film) identified by its catalog ID.
type Work struct {
	ID    ID     `msgpack:"id" json:"id"`
	Title string `msgpack:"title" json:"title"`
}

// Contributor is a person associated with works (for example a cast member).
//
// Index is the dense, 1-based position assigned by the store when the
// contributor is first inserted. It is the unit ingestion partitions over and
// is unrelated to ID. Index is 0 until the store has assigned it.
type Contributor struct {
	ID    ID     `msgpack:"id" json:"id"`
	Name  string `msgpack:"name" json:"name"`
	Index int64  `msgpack:"idx" json:"-"`
}

// Edge is a co-occurrence of two works through a shared contributor.
// Its identity is the ordered pair (Source, Target); Contributor is the
// attribution retained from the first write of that pair.
type Edge struct {
	Source      ID `msgpack:"src"`
	Target      ID `msgpack:"dst"`
	Contributor ID `msgpack:"ctb"`
}

// IsSelfLoop reports whether the edge links a work to itself.
func (e Edge) IsSelfLoop() bool {
	return e.Source == e.Target
}

// Key returns the edge identity.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// EdgeKey is the composite identity of an edge.
type EdgeKey struct {
	Source ID
	Target ID
}

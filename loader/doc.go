// Package loader bulk-imports catalog dump files into a graph store.
//
// Dumps are newline-delimited JSON in the layout of the TMDB daily id
// exports, optionally gzip-compressed (detected by a .gz suffix):
//
//	{"id":603,"original_title":"The Matrix","popularity":...}
//	{"id":6384,"name":"Keanu Reeves","popularity":...}
//
// Works and contributors are read concurrently and written in chunks.
// Contributors are written in file order, so their dense indices follow the
// dump. The resulting contributor count is the universe for ingestion.
package loader

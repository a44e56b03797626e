// Package catalog defines the contract between costar and the external
// catalog service that supplies works and contributors.
//
// The catalog is queried for:
//
//   - seed works to start a graph from
//   - every work a contributor took part in (all pages, in catalog order)
//   - the details and contributor list of a single work
//
// The HTTP implementation for TMDB-compatible services lives in catalog/tmdb.
// A test double lives in catalog/mock.
package catalog

// Package ingestion builds the co-occurrence graph by crawling the catalog
// in parallel.
//
// The Ingester splits the contributor index universe into one contiguous
// range per task (see package partition) and runs one worker per range on an
// ants pool. For every index in its range a worker:
//   - resolves the index to a catalog contributor ID through the store
//   - fetches every work the contributor is credited on
//   - derives an edge for every ordered pair of those works
//   - upserts the works and then the edges
//   - sends a progress Signal to the Aggregator
//
// Workers share nothing but the store, the catalog client and the signal
// channel. A failing worker does not stop the others; the run reports the
// first failure once every worker has returned.
//
// The Seeder populates an empty store with an initial contributor universe
// taken from catalog discovery.
package ingestion

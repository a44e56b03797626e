package catalog

import (
	"context"

	"github.com/poiesic/costar/core"
)

// Client queries a catalog service. Implementations must be safe for
// concurrent use; ingestion workers share one Client.
type Client interface {
	// DiscoverSeedWorks returns the catalog's default discovery listing.
	DiscoverSeedWorks(ctx context.Context) ([]core.Work, error)

	// DiscoverWorksByContributor returns every work the contributor is
	// associated with. Paginated responses are concatenated in page order.
	// An empty result is valid.
	DiscoverWorksByContributor(ctx context.Context, contributor core.ID) ([]core.Work, error)

	// GetWorkDetails returns a single work.
	GetWorkDetails(ctx context.Context, work core.ID) (*core.Work, error)

	// GetWorkContributors returns the contributors credited on a work.
	GetWorkContributors(ctx context.Context, work core.ID) ([]core.Contributor, error)
}

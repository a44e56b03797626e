// Package mock provides a test double for catalog.Client.
//
// MockClient answers from in-memory maps by default and lets tests inject
// behavior per method through function fields. It counts calls and is safe
// for concurrent use, so it can stand in for the real client under ingestion
// workers.
//
// Example:
//
//	client := mock.NewMockClient()
//	client.SetWorksByContributor(6384, []core.Work{{ID: 603, Title: "The Matrix"}})
//	client.DiscoverWorksByContributorFunc = func(ctx context.Context, id core.ID) ([]core.Work, error) {
//	    return nil, errors.New("catalog unavailable")
//	}
package mock

package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/core"
)

// MockClient is a test double for catalog.Client.
// It allows custom behavior injection via function fields.
type MockClient struct {
	// DiscoverSeedWorksFunc is called by DiscoverSeedWorks if set.
	DiscoverSeedWorksFunc func(ctx context.Context) ([]core.Work, error)

	// DiscoverWorksByContributorFunc is called by DiscoverWorksByContributor if set.
	DiscoverWorksByContributorFunc func(ctx context.Context, contributor core.ID) ([]core.Work, error)

	// GetWorkDetailsFunc is called by GetWorkDetails if set.
	GetWorkDetailsFunc func(ctx context.Context, work core.ID) (*core.Work, error)

	// GetWorkContributorsFunc is called by GetWorkContributors if set.
	GetWorkContributorsFunc func(ctx context.Context, work core.ID) ([]core.Contributor, error)

	mu                 sync.Mutex
	seedWorks          []core.Work
	worksByContributor map[core.ID][]core.Work
	contributorsByWork map[core.ID][]core.Contributor
	callCount          int
	contributorLookups []core.ID
}

var _ catalog.Client = (*MockClient)(nil)

// NewMockClient creates a mock client with no data.
// Note: Returns concrete type to allow test assertions.
func NewMockClient() *MockClient {
	return &MockClient{
		worksByContributor: make(map[core.ID][]core.Work),
		contributorsByWork: make(map[core.ID][]core.Contributor),
	}
}

// SetSeedWorks sets the default DiscoverSeedWorks result.
func (m *MockClient) SetSeedWorks(works []core.Work) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedWorks = works
}

// SetWorksByContributor sets the default DiscoverWorksByContributor result for a contributor.
func (m *MockClient) SetWorksByContributor(contributor core.ID, works []core.Work) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worksByContributor[contributor] = works
}

// SetContributorsByWork sets the default GetWorkContributors result for a work.
func (m *MockClient) SetContributorsByWork(work core.ID, contributors []core.Contributor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contributorsByWork[work] = contributors
}

// DiscoverSeedWorks returns the configured seed works.
func (m *MockClient) DiscoverSeedWorks(ctx context.Context) ([]core.Work, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.DiscoverSeedWorksFunc
	works := append([]core.Work(nil), m.seedWorks...)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return works, nil
}

// DiscoverWorksByContributor returns the configured works for the contributor,
// or an empty list.
func (m *MockClient) DiscoverWorksByContributor(ctx context.Context, contributor core.ID) ([]core.Work, error) {
	m.mu.Lock()
	m.callCount++
	m.contributorLookups = append(m.contributorLookups, contributor)
	fn := m.DiscoverWorksByContributorFunc
	works := append([]core.Work(nil), m.worksByContributor[contributor]...)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, contributor)
	}
	return works, nil
}

// GetWorkDetails returns a work with a generated title unless overridden.
func (m *MockClient) GetWorkDetails(ctx context.Context, work core.ID) (*core.Work, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.GetWorkDetailsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, work)
	}
	return &core.Work{ID: work, Title: fmt.Sprintf("work %d", work)}, nil
}

// GetWorkContributors returns the configured contributors for the work.
func (m *MockClient) GetWorkContributors(ctx context.Context, work core.ID) ([]core.Contributor, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.GetWorkContributorsFunc
	contributors := append([]core.Contributor(nil), m.contributorsByWork[work]...)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, work)
	}
	return contributors, nil
}

// CallCount returns the number of times any method was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// ContributorLookups returns, in call order, every contributor passed to
// DiscoverWorksByContributor.
func (m *MockClient) ContributorLookups() []core.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.ID(nil), m.contributorLookups...)
}

// Reset clears call tracking and injected behavior. Configured data is kept.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.contributorLookups = nil
	m.DiscoverSeedWorksFunc = nil
	m.DiscoverWorksByContributorFunc = nil
	m.GetWorkDetailsFunc = nil
	m.GetWorkContributorsFunc = nil
}


// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/core"
)

// maxAPIPage is the highest page TMDB serves for any listing.
const maxAPIPage = 500

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client implements catalog.Client over HTTP.
type Client struct {
	config  *catalog.Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ catalog.Client = (*Client)(nil)

// NewClient creates a TMDB client.
// The config is validated before use.
func NewClient(config *catalog.Config) (catalog.Client, error) {
	return newClient(config, nil)
}

func newClient(config *catalog.Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	limit := rate.Inf
	burst := 1
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
		burst = max(1, int(config.RequestsPerSecond))
	}

	return &Client{
		config:  config,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		logger:  slog.Default().With("component", "tmdb-client"),
	}, nil
}

// DiscoverSeedWorks returns the first page of the default discovery listing.
func (c *Client) DiscoverSeedWorks(ctx context.Context) ([]core.Work, error) {
	var page pageResponse
	if err := c.get(ctx, "/discover/movie", nil, &page); err != nil {
		return nil, fmt.Errorf("discover seed works: %w", err)
	}
	return worksFrom(nil, page.Results), nil
}

// DiscoverWorksByContributor walks every page of the contributor's listing.
func (c *Client) DiscoverWorksByContributor(ctx context.Context, contributor core.ID) ([]core.Work, error) {
	query := url.Values{}
	query.Set("with_people", contributor.String())

	var works []core.Work
	for pageNum := 1; ; pageNum++ {
		query.Set("page", strconv.Itoa(pageNum))
		var page pageResponse
		if err := c.get(ctx, "/discover/movie", query, &page); err != nil {
			return nil, fmt.Errorf("discover works for contributor %d page %d: %w", contributor, pageNum, err)
		}
		works = worksFrom(works, page.Results)

		if !c.hasNextPage(pageNum, page.TotalPages) {
			break
		}
	}
	c.logger.Debug("discovered works", "contributor", contributor, "works", len(works))
	return works, nil
}

func (c *Client) hasNextPage(current, totalPages int) bool {
	if current >= totalPages || current >= maxAPIPage {
		return false
	}
	if c.config.MaxPages > 0 && current >= c.config.MaxPages {
		return false
	}
	return true
}

// GetWorkDetails fetches a single work.
func (c *Client) GetWorkDetails(ctx context.Context, work core.ID) (*core.Work, error) {
	var movie movieResult
	if err := c.get(ctx, "/movie/"+work.String(), nil, &movie); err != nil {
		return nil, fmt.Errorf("get work %d: %w", work, err)
	}
	w := movie.work()
	if w.ID == 0 {
		w.ID = work
	}
	return &w, nil
}

// GetWorkContributors fetches the cast of a work in billing order.
func (c *Client) GetWorkContributors(ctx context.Context, work core.ID) ([]core.Contributor, error) {
	var credits creditsResponse
	if err := c.get(ctx, "/movie/"+work.String()+"/credits", nil, &credits); err != nil {
		return nil, fmt.Errorf("get contributors of work %d: %w", work, err)
	}
	contributors := make([]core.Contributor, 0, len(credits.Cast))
	for _, member := range credits.Cast {
		if member.ID <= 0 {
			continue
		}
		contributors = append(contributors, core.Contributor{ID: core.ID(member.ID), Name: member.Name})
	}
	return contributors, nil
}

func worksFrom(works []core.Work, results []movieResult) []core.Work {
	for _, r := range results {
		if r.ID <= 0 {
			continue
		}
		works = append(works, r.work())
	}
	return works
}

// get performs one rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &catalog.StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrMalformedResponse, err)
	}
	return nil
}

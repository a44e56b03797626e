package tmdb

import "github.com/poiesic/costar/core"

// pageResponse is the envelope of paginated listings.
type pageResponse struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []movieResult `json:"results"`
}

type movieResult struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
}

func (m movieResult) work() core.Work {
	title := m.Title
	if title == "" {
		title = m.OriginalTitle
	}
	return core.Work{ID: core.ID(m.ID), Title: title}
}

type creditsResponse struct {
	ID   int64        `json:"id"`
	Cast []castMember `json:"cast"`
}

type castMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

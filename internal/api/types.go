package api

import (
	"errors"
	"fmt"

	"utsulog/internal/domain"
)

// ErrMalformedResponse is returned when a response decodes but is not a valid page or catalog
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for any non-2xx response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search api returned status %d", e.Code)
	}
	return fmt.Sprintf("search api returned status %d: %s", e.Code, e.Body)
}

// searchResponse mirrors GET /search. Pointers distinguish missing keys from zero values.
type searchResponse struct {
	Total   *int                 `json:"total"`
	Results *[]domain.ResultItem `json:"results"`
}

func (r searchResponse) page() (domain.SearchPage, error) {
	if r.Results == nil {
		return domain.SearchPage{}, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}
	total := 0
	if r.Total != nil {
		total = *r.Total
	}
	if total < 0 {
		return domain.SearchPage{}, fmt.Errorf("%w: negative total %d", ErrMalformedResponse, total)
	}
	for i, item := range *r.Results {
		if item.ID == "" {
			return domain.SearchPage{}, fmt.Errorf("%w: result %d has no id", ErrMalformedResponse, i)
		}
	}
	return domain.SearchPage{Total: total, Results: *r.Results}, nil
}

// videosResponse mirrors GET /videos
type videosResponse struct {
	Videos *[]domain.Video `json:"videos"`
}

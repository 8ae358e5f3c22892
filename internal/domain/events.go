package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchRequested        EventType = "SearchRequested"
	EventSearchCompleted        EventType = "SearchCompleted"
	EventSearchFailed           EventType = "SearchFailed"
	EventStaleResponseDiscarded EventType = "StaleResponseDiscarded"
	EventCatalogLoaded          EventType = "CatalogLoaded"
	EventCatalogFailed          EventType = "CatalogFailed"
	EventConfigLoaded           EventType = "ConfigLoaded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FetchKind distinguishes reset fetches from continuation fetches
type FetchKind string

const (
	FetchReset        FetchKind = "reset"
	FetchContinuation FetchKind = "continuation"
)

// KindOf returns the fetch kind for a reset flag
func KindOf(reset bool) FetchKind {
	if reset {
		return FetchReset
	}
	return FetchContinuation
}

// SearchRequestedEvent is emitted when a page request is dispatched
type SearchRequestedEvent struct {
	Epoch    uint64
	Kind     FetchKind
	Offset   int
	Criteria SearchCriteria
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// SearchCompletedEvent is emitted when a current page response has been merged
type SearchCompletedEvent struct {
	Epoch    uint64
	Kind     FetchKind
	Offset   int
	Received int
	Total    int
	Latency  time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// Exhausted reports whether the page signalled the end of results
func (e SearchCompletedEvent) Exhausted() bool { return e.Received == 0 }

// SearchFailedEvent is emitted when a current page request fails
type SearchFailedEvent struct {
	Epoch   uint64
	Kind    FetchKind
	Offset  int
	Err     error
	Latency time.Duration
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// StaleResponseDiscardedEvent is emitted when a response from a superseded epoch arrives
type StaleResponseDiscardedEvent struct {
	Epoch        uint64
	CurrentEpoch uint64
	Kind         FetchKind
}

func (e StaleResponseDiscardedEvent) Type() EventType { return EventStaleResponseDiscarded }

// Catalog names
const (
	CatalogVideos = "videos"
	CatalogEmojis = "emojis"
)

// CatalogLoadedEvent is emitted when the video catalog or emoji map is loaded
type CatalogLoadedEvent struct {
	Catalog string
	Count   int
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CatalogFailedEvent is emitted when a catalog could not be loaded
type CatalogFailedEvent struct {
	Catalog string
	Err     error
}

func (e CatalogFailedEvent) Type() EventType { return EventCatalogFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	APIURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

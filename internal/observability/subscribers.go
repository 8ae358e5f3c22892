package observability

import (
	"utsulog/internal/eventbus"
)

// Subscribe wires logging and metrics to bus events.
// The returned function removes every subscription.
func Subscribe(bus eventbus.EventBus, logger *Logger, metrics *Metrics) func() {
	var unsubs []func()
	on := func(t eventbus.EventType, h eventbus.EventHandler) {
		unsubs = append(unsubs, bus.Subscribe(t, h))
	}

	on(eventbus.EventSearchRequested, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchRequestedEvent)
		logger.Search("search requested",
			"epoch", ev.Epoch,
			"kind", ev.Kind,
			"offset", ev.Offset,
			"query", ev.Criteria.QueryText,
			"exact", ev.Criteria.ExactMatch,
			"author", ev.Criteria.AuthorName,
			"video_id", ev.Criteria.VideoID,
		)
	})

	on(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchCompletedEvent)
		outcome := OutcomeOK
		if ev.Exhausted() {
			outcome = OutcomeExhausted
		}
		metrics.RecordSearch(ev.Kind, outcome, ev.Received, ev.Latency)
		logger.Search("search completed",
			"epoch", ev.Epoch,
			"kind", ev.Kind,
			"offset", ev.Offset,
			"received", ev.Received,
			"total", ev.Total,
			"latency_ms", ev.Latency.Milliseconds(),
		)
	})

	on(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchFailedEvent)
		metrics.RecordSearch(ev.Kind, OutcomeError, 0, ev.Latency)
		logger.Warn("search failed",
			"subsystem", "search",
			"epoch", ev.Epoch,
			"kind", ev.Kind,
			"offset", ev.Offset,
			"error", ev.Err,
		)
	})

	on(eventbus.EventStaleResponseDiscarded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.StaleResponseDiscardedEvent)
		metrics.RecordSearch(ev.Kind, OutcomeStale, 0, 0)
		logger.Debug("stale response discarded",
			"subsystem", "search",
			"epoch", ev.Epoch,
			"current_epoch", ev.CurrentEpoch,
			"kind", ev.Kind,
		)
	})

	on(eventbus.EventCatalogLoaded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.CatalogLoadedEvent)
		metrics.RecordCatalogLoad(ev.Catalog, nil)
		logger.Info("catalog loaded", "catalog", ev.Catalog, "count", ev.Count)
	})

	on(eventbus.EventCatalogFailed, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.CatalogFailedEvent)
		metrics.RecordCatalogLoad(ev.Catalog, ev.Err)
		logger.Warn("catalog load failed", "catalog", ev.Catalog, "error", ev.Err)
	})

	on(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ConfigLoadedEvent)
		logger.Info("config loaded", "path", ev.Path, "api_url", ev.APIURL)
	})

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

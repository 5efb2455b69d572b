package services

import (
	"github.com/yorudev/gw2-loot-tracker/internal/metrics"
)

// resolvePending fetches display metadata for every id currently waiting
// in the pending sets. The sets are snapshotted under the lock, the
// batched network fetches run without it, and the lock is re-acquired
// only to merge results. Ids that fail to resolve stay pending and are
// retried the next time they are re-encountered.
func (e *SessionEngine) resolvePending() {
	e.mu.Lock()
	needItems := make([]int, 0, len(e.pendingItems))
	for id := range e.pendingItems {
		needItems = append(needItems, id)
	}
	needCurrencies := make([]int, 0, len(e.pendingCurrencies))
	for id := range e.pendingCurrencies {
		needCurrencies = append(needCurrencies, id)
	}
	e.mu.Unlock()

	if len(needItems) > 0 {
		infos := e.client.FetchItemDetails(needItems)
		e.mu.Lock()
		for _, info := range infos {
			e.itemInfo[info.ID] = info
			delete(e.pendingItems, info.ID)
		}
		e.mu.Unlock()
	}

	if len(needCurrencies) > 0 {
		infos := e.client.FetchCurrencyDetails(needCurrencies)
		e.mu.Lock()
		for _, info := range infos {
			e.currencyInfo[info.ID] = info
			delete(e.pendingCurrencies, info.ID)
		}
		e.mu.Unlock()
	}

	e.mu.Lock()
	metrics.KnownItems.Set(float64(len(e.itemInfo)))
	metrics.KnownCurrencies.Set(float64(len(e.currencyInfo)))
	metrics.PendingResolutions.Set(float64(len(e.pendingItems) + len(e.pendingCurrencies)))
	e.mu.Unlock()
}

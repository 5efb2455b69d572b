package services

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/yorudev/gw2-loot-tracker/internal/metrics"
	"github.com/yorudev/gw2-loot-tracker/internal/models"
)

// HistorySink receives finished sessions. It decides whether the content
// is worth persisting.
type HistorySink interface {
	SaveSession(start, end time.Time, items []models.ItemDelta, currencies []models.CurrencyDelta) error
}

// SessionStatus is the engine state exposed to readers.
type SessionStatus struct {
	Active         bool       `json:"active"`
	HasBaseline    bool       `json:"has_baseline"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
}

// SessionEngine accumulates item and currency deltas between a baseline
// snapshot and the snapshots delivered by the poller.
//
// All state lives behind one mutex. Critical sections stay short: metadata
// resolution does its network calls outside the lock and re-acquires it
// only to merge results, so readers are never blocked on I/O.
type SessionEngine struct {
	client   *GW2Client
	settings *Settings
	identity *IdentityService
	history  HistorySink
	poller   *Poller

	mu            sync.Mutex
	active        bool
	hasBaseline   bool
	needsBaseline bool
	startedAt     time.Time

	// Baseline the deltas are computed against. Replaced wholesale on
	// session start, never partially mutated.
	baseWallet map[int]int64
	baseItems  map[int]int

	// Accumulated deltas since the baseline was set. Zero-valued wallet
	// entries stay present here; filtering is a display decision.
	deltaWallet map[int]int64
	deltaItems  map[int]int

	// Resolved display metadata, append-only for the process lifetime.
	itemInfo     map[int]models.ItemInfo
	currencyInfo map[int]models.CurrencyInfo

	// Ids seen in data but not yet resolved. An id leaves its set exactly
	// once, when resolution succeeds; failures leave it pending.
	pendingItems      map[int]struct{}
	pendingCurrencies map[int]struct{}

	autoStart autoStartTracker
}

func NewSessionEngine(client *GW2Client, settings *Settings, identity *IdentityService, history HistorySink, poller *Poller) *SessionEngine {
	return &SessionEngine{
		client:            client,
		settings:          settings,
		identity:          identity,
		history:           history,
		poller:            poller,
		baseWallet:        make(map[int]int64),
		baseItems:         make(map[int]int),
		deltaWallet:       make(map[int]int64),
		deltaItems:        make(map[int]int),
		itemInfo:          make(map[int]models.ItemInfo),
		currencyInfo:      make(map[int]models.CurrencyInfo),
		pendingItems:      make(map[int]struct{}),
		pendingCurrencies: make(map[int]struct{}),
	}
}

// Start begins a fresh session. The engine reports active immediately;
// the next snapshot delivered becomes the new baseline instead of being
// diffed, so no deltas exist until it arrives.
func (e *SessionEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deltaWallet = make(map[int]int64)
	e.deltaItems = make(map[int]int)
	e.active = true
	e.needsBaseline = true
	e.startedAt = time.Now()
	log.Println("Session started")
}

// Stop ends the current session. If one had genuinely been running, the
// accumulated deltas are handed to the history sink, which decides
// whether they are non-trivial enough to persist.
func (e *SessionEngine) Stop() {
	e.mu.Lock()
	wasActive := e.active
	started := e.startedAt
	var items []models.ItemDelta
	var currencies []models.CurrencyDelta
	if wasActive {
		items = e.itemDeltasLocked()
		currencies = e.currencyDeltasLocked()
	}
	e.active = false
	e.mu.Unlock()

	if !wasActive {
		return
	}
	log.Println("Session stopped")
	if e.history != nil {
		if err := e.history.SaveSession(started, time.Now(), items, currencies); err != nil {
			log.Printf("Failed to save session to history: %v", err)
		}
	}
}

// Shutdown stops the poller, waits for it to terminate, and clears all
// engine state.
func (e *SessionEngine) Shutdown() {
	if e.poller != nil {
		e.poller.Stop()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.hasBaseline = false
	e.needsBaseline = false
	e.baseWallet = make(map[int]int64)
	e.baseItems = make(map[int]int)
	e.deltaWallet = make(map[int]int64)
	e.deltaItems = make(map[int]int)
}

// OnPollCycle runs once per poll cycle, before any snapshot delivery.
// It drives the auto-start trigger check.
func (e *SessionEngine) OnPollCycle() {
	mode := e.settings.AutoStart()
	mapID := 0
	if e.identity != nil {
		mapID = e.identity.MapID()
	}

	e.mu.Lock()
	fired := e.autoStart.observe(mode, mapID, time.Now())
	e.mu.Unlock()

	if fired {
		log.Printf("Auto-start (%s): restarting session", mode)
		metrics.SessionRestartsTotal.WithLabelValues(mode.String()).Inc()
		// Stop first so the outgoing session reaches history before the
		// baseline resets.
		e.Stop()
		e.Start()
	}
}

// OnSnapshot applies one delivered snapshot: it either establishes the
// baseline or accumulates deltas against it, then triggers resolution of
// any newly seen ids outside the state lock.
func (e *SessionEngine) OnSnapshot(snap models.Snapshot) {
	newWallet := make(map[int]int64, len(snap.Wallet))
	for _, w := range snap.Wallet {
		newWallet[w.CurrencyID] = w.Value
	}
	newItems := make(map[int]int, len(snap.Inventory))
	for _, stack := range snap.Inventory {
		newItems[stack.ItemID] += stack.Count
	}

	e.mu.Lock()
	switch {
	case !e.hasBaseline || e.needsBaseline:
		// Baseline-establishing snapshot: copy wholesale, no deltas.
		e.baseWallet = newWallet
		e.baseItems = newItems
		e.hasBaseline = true
		e.needsBaseline = false
		for id := range newWallet {
			e.queueCurrencyLocked(id)
		}

	case e.active:
		for id, val := range newWallet {
			e.deltaWallet[id] = val - e.baseWallet[id]
			e.queueCurrencyLocked(id)
		}
		for id, cnt := range newItems {
			d := cnt - e.baseItems[id]
			if d != 0 {
				e.deltaItems[id] = d
				e.queueItemLocked(id)
			} else if _, shown := e.deltaItems[id]; shown {
				// An entry that returned to zero stays visible as zero;
				// it is never pruned outright.
				e.deltaItems[id] = 0
			}
		}
		// Items at baseline but absent from the snapshot: fully consumed.
		for id, base := range e.baseItems {
			if _, ok := newItems[id]; !ok {
				e.deltaItems[id] = -base
				e.queueItemLocked(id)
			}
		}

	default:
		// Stopped but still polling: discard the snapshot, keep the
		// resolver queue warm.
		for id := range newWallet {
			e.queueCurrencyLocked(id)
		}
		for id := range newItems {
			e.queueItemLocked(id)
		}
	}
	needsResolve := len(e.pendingItems) > 0 || len(e.pendingCurrencies) > 0
	e.mu.Unlock()

	if needsResolve {
		e.resolvePending()
	}
}

func (e *SessionEngine) queueItemLocked(id int) {
	if _, ok := e.itemInfo[id]; !ok {
		e.pendingItems[id] = struct{}{}
	}
}

func (e *SessionEngine) queueCurrencyLocked(id int) {
	if _, ok := e.currencyInfo[id]; !ok {
		e.pendingCurrencies[id] = struct{}{}
	}
}

// PrewarmCurrencies loads the full currency catalog so wallet deltas
// resolve to names immediately instead of waiting for per-id lookups.
// The catalog is small and static; a failed fetch just leaves resolution
// to the usual on-demand path.
func (e *SessionEngine) PrewarmCurrencies() {
	infos := e.client.FetchAllCurrencies()
	if len(infos) == 0 {
		return
	}
	e.mu.Lock()
	for _, info := range infos {
		e.currencyInfo[info.ID] = info
		delete(e.pendingCurrencies, info.ID)
	}
	metrics.KnownCurrencies.Set(float64(len(e.currencyInfo)))
	e.mu.Unlock()
}

func (e *SessionEngine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// ElapsedTime reports how long the current session has been running,
// or zero when no session is active.
func (e *SessionEngine) ElapsedTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return 0
	}
	return time.Since(e.startedAt)
}

func (e *SessionEngine) Status() SessionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	status := SessionStatus{
		Active:      e.active,
		HasBaseline: e.hasBaseline,
	}
	if e.active {
		started := e.startedAt
		status.StartedAt = &started
		status.ElapsedSeconds = int64(time.Since(e.startedAt).Seconds())
	}
	return status
}

// GetItemDeltas returns an independent copy of the current item deltas,
// enriched with resolved metadata and sorted gains-first. Zero deltas are
// kept: an entry that returned to zero is still meaningful once shown.
func (e *SessionEngine) GetItemDeltas() []models.ItemDelta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.itemDeltasLocked()
}

func (e *SessionEngine) itemDeltasLocked() []models.ItemDelta {
	result := make([]models.ItemDelta, 0, len(e.deltaItems))
	for id, delta := range e.deltaItems {
		d := models.ItemDelta{ItemID: id, Delta: delta}
		if info, ok := e.itemInfo[id]; ok {
			d.Name = info.Name
			d.Rarity = info.Rarity
			d.ChatLink = info.ChatLink
			d.Type = info.Type
			d.Description = info.Description
			d.VendorValue = info.VendorValue
		} else {
			d.Name = fmt.Sprintf("Item #%d", id)
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Delta != result[j].Delta {
			return result[i].Delta > result[j].Delta
		}
		return result[i].ItemID < result[j].ItemID
	})
	return result
}

// GetCurrencyDeltas returns an independent copy of the current currency
// deltas, sorted gains-first. Unlike items, zero-valued entries are
// omitted here even though they stay in the internal state.
func (e *SessionEngine) GetCurrencyDeltas() []models.CurrencyDelta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currencyDeltasLocked()
}

func (e *SessionEngine) currencyDeltasLocked() []models.CurrencyDelta {
	result := make([]models.CurrencyDelta, 0, len(e.deltaWallet))
	for id, delta := range e.deltaWallet {
		if delta == 0 {
			continue
		}
		d := models.CurrencyDelta{CurrencyID: id, Delta: delta}
		if info, ok := e.currencyInfo[id]; ok {
			d.Name = info.Name
		} else {
			d.Name = fmt.Sprintf("Currency #%d", id)
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Delta != result[j].Delta {
			return result[i].Delta > result[j].Delta
		}
		return result[i].CurrencyID < result[j].CurrencyID
	})
	return result
}

// GetKnownItems returns everything the resolver has learned about items
// so far, for the profile editor.
func (e *SessionEngine) GetKnownItems() []models.ItemInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]models.ItemInfo, 0, len(e.itemInfo))
	for _, info := range e.itemInfo {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetKnownCurrencies returns everything the resolver has learned about
// currencies so far.
func (e *SessionEngine) GetKnownCurrencies() []models.CurrencyInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]models.CurrencyInfo, 0, len(e.currencyInfo))
	for _, info := range e.currencyInfo {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

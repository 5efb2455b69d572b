package services

import (
	"log"
	"sync"
	"time"

	"github.com/yorudev/gw2-loot-tracker/internal/metrics"
	"github.com/yorudev/gw2-loot-tracker/internal/models"
)

// PollConsumer receives everything the poller produces. Both methods run
// on the poller's goroutine; the poller does not proceed to its next wait
// until they return, so implementations must not block indefinitely.
type PollConsumer interface {
	// OnPollCycle runs once per cycle, before any snapshot delivery.
	OnPollCycle()
	// OnSnapshot delivers one successfully fetched snapshot.
	OnSnapshot(snap models.Snapshot)
}

// Poller owns the single background worker that fetches account snapshots
// on the configured interval. One account is polled at a time, serially,
// so there is never more than one snapshot fetch in flight.
type Poller struct {
	client   *GW2Client
	settings *Settings
	identity *IdentityService

	mu      sync.Mutex
	running bool
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

func NewPoller(client *GW2Client, settings *Settings, identity *IdentityService) *Poller {
	return &Poller{
		client:   client,
		settings: settings,
		identity: identity,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the worker goroutine. Calling Start while already
// running is a no-op.
func (p *Poller) Start(consumer PollConsumer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	// Drop any wake requested while stopped; it should not carry over
	// into the new worker.
	select {
	case <-p.wake:
	default:
	}

	go p.loop(consumer, p.stop, p.done)
	log.Println("Poller started")
}

// Stop signals shutdown and waits for the worker to terminate. After Stop
// returns, no further consumer invocations occur. Calling Stop while not
// running is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
	log.Println("Poller stopped")
}

// PollNow wakes the worker early so a fetch happens sooner than the
// interval. The next cycle still runs its own full timer. Has no effect
// while the poller is stopped.
func (p *Poller) PollNow() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(consumer PollConsumer, stop, done chan struct{}) {
	defer close(done)
	for {
		timer := time.NewTimer(p.settings.PollInterval())
		select {
		case <-stop:
			timer.Stop()
			return
		case <-p.wake:
			timer.Stop()
		case <-timer.C:
		}

		// Check shutdown again before issuing any network call: a stop
		// and a wake can race, and Stop's guarantee depends on this.
		select {
		case <-stop:
			return
		default:
		}

		key := p.settings.APIKey()
		if key == "" {
			continue
		}

		consumer.OnPollCycle()

		characterName := p.identity.CharacterName()
		metrics.PollCyclesTotal.Inc()
		start := time.Now()
		snap, ok := p.client.FetchSnapshot(key, characterName)
		metrics.SnapshotFetchDuration.Observe(time.Since(start).Seconds())
		if !ok {
			metrics.SnapshotFetchFailures.Inc()
			continue
		}
		consumer.OnSnapshot(snap)
	}
}

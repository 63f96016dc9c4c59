package availability

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"concierge/infras/reservations"
)

// Result is one delivered evaluation. Err is non-nil when the service call
// failed; the Set then holds the capacity-only fallback instead of service
// data, and the caller is expected to lock the draft until a later evaluation
// succeeds.
type Result struct {
	Set    Set
	Params Params
	Err    error
}

// Debouncer coalesces rapid input changes into a single availability query.
// Each Request restarts a settle timer; only the tuple that survives the
// settle window reaches the reservation service. A generation counter makes
// delivery last-write-wins: results of superseded tuples, successful or not,
// are discarded, so a stale response can never overwrite a newer one.
type Debouncer struct {
	client reservations.Client
	settle time.Duration
	sink   func(Result)

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	gen     uint64
	applied uint64
}

// NewDebouncer wires a debouncer to the reservation service client. sink
// receives every non-stale Result; it is called from the debouncer's own
// goroutine and must do its own locking.
func NewDebouncer(client reservations.Client, settle time.Duration, sink func(Result)) *Debouncer {
	return &Debouncer{
		client: client,
		settle: settle,
		sink:   sink,
	}
}

// Request registers a changed input tuple. Any pending settle timer is
// restarted and any in-flight service call is cancelled; the tuple only fires
// once no further change arrives within the settle window. The returned
// generation matches Set.Generation on the delivered Result, so callers that
// serialize delivery behind their own lock can re-check freshness there.
func (d *Debouncer) Request(p Params) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.settle, func() {
		d.fire(gen, p)
	})

	return gen
}

// Flush fires the pending tuple immediately, skipping the rest of the settle
// window. A no-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.mu.Unlock()

	if timer != nil && timer.Stop() {
		timer.Reset(0)
	}
}

// Stop cancels any pending timer and in-flight call. The debouncer must not
// be used afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) fire(gen uint64, p Params) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()

		return
	}

	// The evaluation outlives the request that triggered it, so it runs on
	// its own context; a newer Request cancels it.
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	defer cancel()

	if !p.Complete() {
		d.deliver(gen, Result{Set: Fallback(p), Params: p})

		return
	}

	eligible, err := d.client.CheckAvailability(ctx, reservations.AvailabilityRequest{
		Kind:      p.Kind,
		Start:     p.Start,
		End:       p.End,
		PartySize: p.PartySize,
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("kind", p.Kind).
			Int("partySize", p.PartySize).
			Msg("availability check failed, falling back to capacity filter")

		d.deliver(gen, Result{Set: Fallback(p), Params: p, Err: err})

		return
	}

	d.deliver(gen, Result{Set: Merge(eligible, p), Params: p})
}

func (d *Debouncer) deliver(gen uint64, r Result) {
	d.mu.Lock()
	if gen != d.gen || gen <= d.applied {
		d.mu.Unlock()

		return
	}

	d.applied = gen
	d.mu.Unlock()

	r.Set.Generation = gen
	d.sink(r)
}

package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"chronicle/internal/almanac"
	"chronicle/internal/daycache"
	"chronicle/internal/models"
	"chronicle/internal/providers"
)

type ViewServiceInterface interface {
	Load(ctx context.Context)
	Retry(ctx context.Context)
	Select(ctx context.Context, index int) error
	Snapshot() models.DailyView
	State() models.FetchState
	Teardown()
}

// ViewService drives the UI-visible fetch state machine:
// Idle → LoadingText → LoadingImage → Success | Error. One load cycle is
// live at a time; results arriving for a superseded or torn-down cycle
// are discarded before every state mutation.
type ViewService struct {
	logger    providers.Logger
	clock     providers.Clock
	metrics   providers.MetricsProviderInterface
	chronicle ChronicleServiceInterface

	cycle atomic.Int64
	alive atomic.Bool
	state atomic.Int32

	mu             sync.Mutex
	events         []models.HistoryEvent
	selected       int
	images         map[string]string
	solarTermImage string
	errorMessage   string
}

func NewViewService(
	logger providers.Logger,
	clock providers.Clock,
	metrics providers.MetricsProviderInterface,
	chronicle ChronicleServiceInterface,
) ViewServiceInterface {
	vs := &ViewService{
		logger:    logger,
		clock:     clock,
		metrics:   metrics,
		chronicle: chronicle,
		images:    make(map[string]string),
	}
	vs.alive.Store(true)
	vs.state.Store(int32(models.StateIdle))
	return vs
}

func (vs *ViewService) State() models.FetchState {
	return models.FetchState(vs.state.Load())
}

// apply runs fn under the lock only if the given cycle is still the
// live one. This is the per-load-cycle liveness check: in-flight results
// for stale cycles are dropped, never applied.
func (vs *ViewService) apply(id int64, fn func()) bool {
	if !vs.alive.Load() || vs.cycle.Load() != id {
		return false
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if !vs.alive.Load() || vs.cycle.Load() != id {
		return false
	}
	fn()
	return true
}

func (vs *ViewService) setState(id int64, s models.FetchState) bool {
	ok := vs.apply(id, func() {
		vs.state.Store(int32(s))
	})
	if ok {
		vs.metrics.SetFetchState(int(s))
	}
	return ok
}

// Load runs one full cycle. The text stage always settles before any
// image work; the two illustration fetches then run concurrently and
// both settle, success or not, before the cycle reaches Success. A panic
// or cancelled context during the cycle is the hard failure path and
// surfaces as StateError.
func (vs *ViewService) Load(ctx context.Context) {
	id := vs.cycle.Inc()

	vs.apply(id, func() {
		vs.state.Store(int32(models.StateIdle))
		vs.events = nil
		vs.selected = 0
		vs.images = make(map[string]string)
		vs.solarTermImage = ""
		vs.errorMessage = ""
	})
	vs.metrics.SetFetchState(int(models.StateIdle))

	if err := vs.runCycle(ctx, id); err != nil {
		vs.logger.Errorf(providers.TypeFetch, "Load cycle failed: %s", err)
		vs.apply(id, func() {
			vs.state.Store(int32(models.StateError))
			vs.errorMessage = err.Error()
		})
		vs.metrics.SetFetchState(int(models.StateError))
	}
}

func (vs *ViewService) runCycle(ctx context.Context, id int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load cycle panicked: %v", r)
		}
	}()

	if !vs.setState(id, models.StateLoadingText) {
		return nil
	}

	now := vs.clock.Now()
	events := vs.chronicle.LoadDaily(ctx, now)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("load cancelled: %w", ctxErr)
	}
	if len(events) == 0 {
		return fmt.Errorf("load produced no events")
	}

	if !vs.apply(id, func() {
		vs.events = events
		vs.selected = 0
	}) {
		return nil
	}
	if !vs.setState(id, models.StateLoadingImage) {
		return nil
	}

	// Primary and solar-term illustrations are unordered relative to
	// each other; a failure in one must not cancel the other.
	var wg sync.WaitGroup

	first := events[0]
	wg.Add(1)
	go func() {
		defer wg.Done()
		key := vs.chronicle.EventImageKey(first)
		if uri, ok := vs.chronicle.Illustration(ctx, vs.chronicle.EventPrompt(first), key); ok {
			vs.apply(id, func() { vs.images[key] = uri })
		}
	}()

	term := almanac.SolarTermFor(now)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if uri, ok := vs.chronicle.SolarTermIllustration(ctx, term); ok {
			vs.apply(id, func() { vs.solarTermImage = uri })
		}
	}()

	wg.Wait()

	vs.setState(id, models.StateSuccess)
	return nil
}

// Retry is the only exit from StateError: it clears all event and image
// state and re-enters the cycle at Idle → LoadingText.
func (vs *ViewService) Retry(ctx context.Context) {
	vs.Load(ctx)
}

// Select switches the highlighted event within an already-successful
// result. It does not leave StateSuccess; it only fetches that event's
// illustration when it is not yet held in memory.
func (vs *ViewService) Select(ctx context.Context, index int) error {
	if vs.State() != models.StateSuccess {
		return fmt.Errorf("selection requires a successful load")
	}

	id := vs.cycle.Load()

	var ev models.HistoryEvent
	var key string
	var needImage bool
	ok := vs.apply(id, func() {
		if index < 0 || index >= len(vs.events) {
			return
		}
		vs.selected = index
		ev = vs.events[index]
		key = vs.chronicle.EventImageKey(ev)
		_, held := vs.images[key]
		needImage = !held
	})
	if !ok {
		return fmt.Errorf("selection unavailable")
	}
	if key == "" {
		return fmt.Errorf("event index %d out of range", index)
	}

	if needImage {
		if uri, got := vs.chronicle.Illustration(ctx, vs.chronicle.EventPrompt(ev), key); got {
			vs.apply(id, func() { vs.images[key] = uri })
		}
	}
	return nil
}

func (vs *ViewService) Snapshot() models.DailyView {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	view := models.DailyView{
		State:          models.FetchState(vs.state.Load()).String(),
		DateKey:        daycache.DayKey(vs.clock.Now()),
		Events:         vs.events,
		Selected:       vs.selected,
		SolarTermImage: vs.solarTermImage,
		ErrorMessage:   vs.errorMessage,
	}
	if vs.selected >= 0 && vs.selected < len(vs.events) {
		view.EventImage = vs.images[vs.chronicle.EventImageKey(vs.events[vs.selected])]
	}
	return view
}

// Teardown marks the service dead; any in-flight cycle results are
// discarded on arrival rather than applied.
func (vs *ViewService) Teardown() {
	vs.alive.Store(false)
}

package drilldown

import (
	"log/slog"
	"sync"
	"time"
)

type RegistryConfig struct {
	Resources    Resources
	FetchTimeout time.Duration
	Logger       *slog.Logger

	// Now is used for idle tracking. Defaults to time.Now.
	Now func() time.Time
}

type registryEntry struct {
	controller *Controller
	lastSeen   time.Time
}

/*
Registry holds one Controller per viewer. A viewer's controller is created
and initialized on first use and disposed when the viewer goes idle or the
registry is closed.
*/
type Registry struct {
	resources    Resources
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	mu      sync.Mutex
	closed  bool
	entries map[string]*registryEntry

	stopSweeper chan struct{}
	stopOnce    sync.Once
	wg          *sync.WaitGroup
}

func NewRegistry(config RegistryConfig) *Registry {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	return &Registry{
		resources:    config.Resources,
		fetchTimeout: config.FetchTimeout,
		logger:       config.Logger,
		now:          config.Now,
		entries:      map[string]*registryEntry{},
		stopSweeper:  make(chan struct{}),
		wg:           &sync.WaitGroup{},
	}
}

// Get returns the viewer's controller, creating and initializing it if needed.
func (r *Registry) Get(viewerID string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrDisposed
	}

	if entry, ok := r.entries[viewerID]; ok {
		entry.lastSeen = r.now()
		return entry.controller, nil
	}

	controller := New(
		r.resources,
		WithLogger(r.logger.With("viewerID", viewerID)),
		WithFetchTimeout(r.fetchTimeout),
	)

	if err := controller.Initialize(); err != nil {
		return nil, err
	}

	r.entries[viewerID] = &registryEntry{
		controller: controller,
		lastSeen:   r.now(),
	}

	r.logger.Info("drill-down view created", "viewerID", viewerID, "numViewers", len(r.entries))
	return controller, nil
}

func (r *Registry) Dispose(viewerID string) {
	r.mu.Lock()
	entry, ok := r.entries[viewerID]
	delete(r.entries, viewerID)
	r.mu.Unlock()

	if ok {
		entry.controller.Dispose()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Sweep disposes every controller not used within maxIdle and returns how many it removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	var (
		idle []*Controller
	)

	r.mu.Lock()
	cutoff := r.now().Add(-maxIdle)

	for viewerID, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			idle = append(idle, entry.controller)
			delete(r.entries, viewerID)
		}
	}

	r.mu.Unlock()

	for _, controller := range idle {
		controller.Dispose()
	}

	if len(idle) > 0 {
		r.logger.Info("disposed idle drill-down views", "numDisposed", len(idle))
	}

	return len(idle)
}

func (r *Registry) StartSweeper(interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Sweep(maxIdle)

			case <-r.stopSweeper:
				return
			}
		}
	}()

	r.logger.Info("drill-down view sweeper started", "interval", interval, "maxIdle", maxIdle)
}

func (r *Registry) StopSweeper() {
	r.stopOnce.Do(func() {
		close(r.stopSweeper)
	})

	r.wg.Wait()
}

// Close stops the sweeper and disposes every controller. Get fails afterwards.
func (r *Registry) Close() {
	r.StopSweeper()

	r.mu.Lock()
	r.closed = true
	entries := r.entries
	r.entries = map[string]*registryEntry{}
	r.mu.Unlock()

	for _, entry := range entries {
		entry.controller.Dispose()
	}
}

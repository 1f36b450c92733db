package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SweeperConfig holds configuration for the idle-session sweeper.
type SweeperConfig struct {
	IdleTTL  time.Duration
	Interval time.Duration
}

// Sweeper periodically ends sessions idle longer than the configured TTL.
type Sweeper struct {
	store    *Store
	idleTTL  time.Duration
	interval time.Duration
	logger   zerolog.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSweeper starts a sweeper over store. Returns nil when the TTL is 0
// (sessions then live until deleted or the process exits).
func NewSweeper(store *Store, cfg SweeperConfig, logger zerolog.Logger) *Sweeper {
	if cfg.IdleTTL <= 0 {
		return nil
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = cfg.IdleTTL / 2
	}

	sw := &Sweeper{
		store:    store,
		idleTTL:  cfg.IdleTTL,
		interval: interval,
		logger:   logger.With().Str("component", "sweeper").Logger(),
		done:     make(chan struct{}),
	}

	sw.wg.Add(1)
	go sw.tickLoop()

	return sw
}

func (sw *Sweeper) tickLoop() {
	defer sw.wg.Done()
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.sweep()
		case <-sw.done:
			return
		}
	}
}

func (sw *Sweeper) sweep() {
	ended := sw.store.EndIdle(sw.store.now().Add(-sw.idleTTL))
	if ended > 0 {
		sw.logger.Info().Int("ended", ended).Dur("idle_ttl", sw.idleTTL).Msg("ended idle sessions")
	}
}

// Stop signals the sweeper to stop and waits for it to finish.
func (sw *Sweeper) Stop() {
	sw.stopOnce.Do(func() {
		close(sw.done)
		sw.wg.Wait()
	})
}

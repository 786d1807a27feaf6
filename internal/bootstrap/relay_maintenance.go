package bootstrap

import (
	"context"
	"os"
	"sync"
	"time"

	"relay_server/pkg/httputil"
	"relay_server/pkg/metrics"

	"github.com/rs/zerolog"
)

const (
	genreWarmupInterval = 12 * time.Hour
	poolStatsInterval   = 5 * time.Minute
)

// Maintenance runs background housekeeping: it keeps the catalog genre
// list warm so the first recommendation request does not pay for it,
// and periodically logs HTTP pool statistics.
type Maintenance struct {
	deps   *Dependencies
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	zlog   zerolog.Logger
}

func NewMaintenance(deps *Dependencies) *Maintenance {
	ctx, cancel := context.WithCancel(context.Background())
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "maintenance").Logger()

	return &Maintenance{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}
}

func (m *Maintenance) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.warmGenres()

		ticker := time.NewTicker(genreWarmupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.warmGenres()
			}
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(poolStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				for _, stats := range httputil.GetAllPoolStats() {
					m.zlog.Debug().
						Str("pool", stats.Name).
						Int("max_conns_per_host", stats.MaxConnsPerHost).
						Msg("HTTP pool stats")
				}
				for name, health := range metrics.GetAllPoolHealth() {
					event := m.zlog.Debug()
					if health.Status != metrics.PoolHealthy {
						event = m.zlog.Warn()
					}
					event.Str("pool", name).
						Str("status", string(health.Status)).
						Float64("utilization", health.Utilization).
						Msg("DB pool health")
				}
			}
		}
	}()

	m.zlog.Info().Msg("Maintenance tasks started")
}

func (m *Maintenance) warmGenres() {
	ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
	defer cancel()

	genres, err := m.deps.Catalog.AvailableGenres(ctx)
	if err != nil {
		m.zlog.Warn().Err(err).Msg("Genre warmup failed")
		return
	}
	m.zlog.Info().Int("genres", len(genres)).Msg("Genre list warmed")
}

func (m *Maintenance) Stop() {
	m.cancel()
	m.wg.Wait()
	m.zlog.Info().Msg("Maintenance tasks stopped")
}

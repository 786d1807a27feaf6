package metrics

import (
	"testing"
	"time"
)

func TestAssessDBPoolHealthBands(t *testing.T) {
	tests := []struct {
		name  string
		stats DBPoolStats
		want  PoolHealthStatus
	}{
		{"unlimited pool", DBPoolStats{MaxOpenConnections: 0}, PoolHealthy},
		{"idle pool", DBPoolStats{InUse: 1, MaxOpenConnections: 20}, PoolHealthy},
		{"heavily used", DBPoolStats{InUse: 17, MaxOpenConnections: 20}, PoolDegraded},
		{"nearly exhausted", DBPoolStats{InUse: 19, MaxOpenConnections: 20}, PoolUnhealthy},
		{"long waits degrade a healthy pool", DBPoolStats{InUse: 2, MaxOpenConnections: 20, WaitCount: 10, WaitDuration: 6 * time.Second}, PoolDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessDBPoolHealth(tt.stats); got.Status != tt.want {
				t.Errorf("status = %s, want %s", got.Status, tt.want)
			}
		})
	}
}

func TestPoolMonitorTracksNilPoolAsEmptyStats(t *testing.T) {
	m := NewPoolMonitor()
	m.Register("postgres", nil)

	health := m.AllHealth()
	if len(health) != 1 {
		t.Fatalf("got %d pools, want 1", len(health))
	}
	if health["postgres"].Status != PoolHealthy {
		t.Errorf("status = %s, want healthy for an empty pool", health["postgres"].Status)
	}
}

// Package health probes provider adapters and publishes immutable
// point-in-time snapshots of their status.
//
// The prober is the only writer; routing and dashboards read the latest
// snapshot without locking.
package health

import (
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// Snapshot is an immutable view of all providers' health at one instant.
// Readers must not mutate the Records map.
type Snapshot struct {
	// Records maps provider name to its most recent health record.
	Records map[string]providers.HealthRecord `json:"records"`

	// TakenAt is when this snapshot was assembled.
	TakenAt time.Time `json:"taken_at"`
}

// StatusOf returns the recorded status for a provider, or StatusUnknown
// when the provider has never been probed.
func (s Snapshot) StatusOf(name string) providers.HealthStatus {
	if rec, ok := s.Records[name]; ok {
		return rec.Status
	}
	return providers.StatusUnknown
}

// Healthy reports whether the provider's last probe succeeded. Unknown
// counts as healthy so that a never-probed provider is not deprioritized.
func (s Snapshot) Healthy(name string) bool {
	return s.StatusOf(name) != providers.StatusUnhealthy
}

// InitialSnapshot returns a snapshot with every registered provider set to
// StatusUnknown, used before the first probe completes.
func InitialSnapshot(identities []providers.Identity) Snapshot {
	records := make(map[string]providers.HealthRecord, len(identities))
	now := time.Now()
	for _, id := range identities {
		records[id.Name] = providers.HealthRecord{
			Status:    providers.StatusUnknown,
			CheckedAt: now,
			Model:     id.Model,
		}
	}
	return Snapshot{Records: records, TakenAt: now}
}

package manager

import (
	"time"

	"engined/internal/engine"
	"engined/pkg/types"
)

// Status returns a point-in-time view of the engine and all instances.
func (m *Manager) Status() types.StatusResponse {
	eng := engine.Snapshot()
	es := types.EngineStatus{
		Initialized: eng.Initialized,
		Refs:        eng.Refs,
	}
	if eng.Initialized {
		es.NumaStrategy = eng.NumaStrategy.String()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	instances := make([]types.InstanceStatus, 0, len(m.instances))
	for _, inst := range m.instances {
		instances = append(instances, types.InstanceStatus{
			ModelID:  inst.ID,
			State:    string(inst.State),
			LastUsed: inst.LastUsed.Unix(),
			Inflight: len(inst.genCh),
		})
	}
	now := time.Now()
	return types.StatusResponse{
		Engine:         es,
		Instances:      instances,
		LastError:      m.lastErr,
		LoadsTotal:     m.loadsTotal,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

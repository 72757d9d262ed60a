package jobs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := serverConfig(WorkerConfig{})
	require.Equal(t, 5, cfg.Concurrency)
	require.Equal(t, map[string]int{QueueDefault: 1}, cfg.Queues)
}

func TestServerConfigOverrides(t *testing.T) {
	cfg := serverConfig(WorkerConfig{
		Concurrency: 12,
		Queues:      map[string]int{"critical": 6, QueueDefault: 1},
	})
	require.Equal(t, 12, cfg.Concurrency)
	require.Equal(t, map[string]int{"critical": 6, QueueDefault: 1}, cfg.Queues)
}

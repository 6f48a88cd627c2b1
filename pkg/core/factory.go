package core

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/idgen"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/observability"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage/file"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage/inmemory"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage/noop"
)

// NewBackend creates the backend selected by cfg.Backend.Provider.
//
// The backend is wrapped with tracing and, when cfg.Metrics.Enabled, with
// Prometheus metrics registered on the default registerer.
//
// Parameters:
//   - cfg: Client configuration
//   - log: Logger handed to the backend; nil disables backend logging
//
// Returns the backend, or an error if the configuration is invalid or the
// file backend cannot load its file.
func NewBackend(cfg *Config, log *zerolog.Logger) (storage.Backend, error) {
	ids, err := idgen.New(idgen.Scheme(cfg.IDScheme), cfg.SnowflakeNode)
	if err != nil {
		return nil, NewMemoryError("NewBackend", fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}

	var backend storage.Backend
	switch cfg.Backend.Provider {
	case ProviderMemory:
		backend = inmemory.NewClient(&inmemory.Config{
			IDGenerator: ids,
			Logger:      log,
			RRFK:        cfg.Search.RRFK,
		})
	case ProviderFile:
		fc, err := file.NewClient(&file.Config{
			Path:        cfg.Backend.Path,
			IDGenerator: ids,
			Logger:      log,
			RRFK:        cfg.Search.RRFK,
		})
		if err != nil {
			return nil, NewMemoryError("NewBackend", err)
		}
		backend = fc
	case ProviderNone:
		backend = noop.NewClient()
	default:
		return nil, NewMemoryError("NewBackend", fmt.Errorf("%w: unknown backend provider %q", ErrInvalidConfig, cfg.Backend.Provider))
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics, err = observability.NewMetrics(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
		if err != nil {
			return nil, NewMemoryError("NewBackend", err)
		}
	}

	return observability.Instrument(backend, metrics, log), nil
}

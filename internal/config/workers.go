package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. CLI flag --workers
//   2. Environment variable NUMCALC_WORKERS
//   3. Hardware estimation (this file)

// ApplyAdaptiveDefaults fills configuration values left at zero with
// estimates derived from the host, preserving explicit settings.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateBatchWorkers()
	}
	return cfg
}

// EstimateBatchWorkers returns the number of batch lines evaluated
// concurrently. Evaluations are CPU bound and allocate heavily, so the
// estimate stays at or below the core count and leaves one core to the
// collector on larger machines.
func EstimateBatchWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return numCPU
	case numCPU <= 8:
		return numCPU - 1
	default:
		return numCPU - 2
	}
}

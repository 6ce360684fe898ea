// Package config is the host-facing runtime configuration: the knobs a
// driver sets before calling runtime.New, loaded from SCRATCHRT_*
// environment variables via github.com/caarlos0/env/v6 (a teacher
// dependency promoted here from indirect to direct use, the same library
// the teacher's go.mod already carries for its own config loading).
package config

import "github.com/caarlos0/env/v6"

// Config holds every tunable the Thread & Scheduler module (spec.md §4.3)
// needs. Defaults match the values spec.md names explicitly.
type Config struct {
	// WorkBudget caps the number of blocks a single thread may execute within
	// one scheduler frame before it is forced to yield, guarding against a
	// project with a true infinite, suspension-free loop.
	WorkBudget int `env:"WORK_BUDGET" envDefault:"4096"`
	// CloneCap is the maximum number of live clones allowed project-wide;
	// control_create_clone_of is a silent no-op once reached.
	CloneCap int `env:"CLONE_CAP" envDefault:"300"`
	// MaxCallDepth caps nested custom-block (procedure) calls; a thread that
	// exceeds it is terminated with a warning rather than growing its frame
	// stack without bound, per spec.md §7's StackOverflow policy ("thread
	// terminates with a warning; other threads continue").
	MaxCallDepth int `env:"MAX_CALL_DEPTH" envDefault:"256"`
	// FrameSeconds is a default per-frame delta for hosts that step at a
	// fixed rate. runtime.Update does not read it: each call advances the
	// virtual clock by the dtSeconds its caller passes.
	FrameSeconds float64 `env:"FRAME_SECONDS" envDefault:"0.02"`
}

// Default returns the spec-mandated defaults without consulting the
// environment, for use in tests and embedders that configure
// programmatically.
func Default() Config {
	return Config{WorkBudget: 4096, CloneCap: 300, FrameSeconds: 0.02, MaxCallDepth: 256}
}

// Load reads Config from SCRATCHRT_* environment variables, falling back to
// Default's values for anything unset.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg, env.Options{Prefix: "SCRATCHRT_"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package reentry

import (
	"time"

	"github.com/spf13/viper"
)

// Config gathers the engine tunables. Zero values are filled in by
// DefaultConfig; validation happens in NewEngine.
type Config struct {
	StepSize        time.Duration // fixed physics timestep
	UpdateInterval  time.Duration // real-time loop cadence
	MaxBacklogSteps int           // steps flushed per tick before lag shedding
	TimeWarp        float64       // initial wall-to-simulated ratio
	Epoch           time.Time     // initial simulated epoch
	ChunkSize       int           // trajectory samples per streamed chunk

	Perturbations Perturbations

	VSOP87    bool   // use the VSOP87 planetary theory for planet positions
	VSOP87Dir string // directory holding the VSOP87 data files

	MetricsAddr string // Prometheus listen address, empty disables the endpoint
	OutputPath  string // directory for trajectory exports
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		StepSize:        time.Second,
		UpdateInterval:  50 * time.Millisecond,
		MaxBacklogSteps: 600,
		TimeWarp:        1,
		Epoch:           DefaultEpoch,
		ChunkSize:       64,
		Perturbations:   FullPerturbations(),
		OutputPath:      ".",
	}
}

func (c Config) validate() error {
	if c.StepSize <= 0 {
		return newConfigError("simulation.step must be positive, got %s", c.StepSize)
	}
	if c.UpdateInterval <= 0 {
		return newConfigError("simulation.update_interval must be positive, got %s", c.UpdateInterval)
	}
	if c.MaxBacklogSteps < 1 {
		return newConfigError("simulation.max_backlog_steps must be at least 1, got %d", c.MaxBacklogSteps)
	}
	if c.TimeWarp < 0 {
		return newConfigError("simulation.time_warp must be non-negative, got %f", c.TimeWarp)
	}
	if c.ChunkSize < 1 {
		return newConfigError("trajectory.chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	return nil
}

// LoadConfig reads conf.toml from the given directory and merges it over the
// defaults. Unknown keys are ignored; malformed values surface as
// ConfigurationErrors.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return cfg, newConfigError("%s/conf.toml: %s", dir, err)
	}
	if v.IsSet("simulation.step") {
		cfg.StepSize = v.GetDuration("simulation.step")
	}
	if v.IsSet("simulation.update_interval") {
		cfg.UpdateInterval = v.GetDuration("simulation.update_interval")
	}
	if v.IsSet("simulation.max_backlog_steps") {
		cfg.MaxBacklogSteps = v.GetInt("simulation.max_backlog_steps")
	}
	if v.IsSet("simulation.time_warp") {
		cfg.TimeWarp = v.GetFloat64("simulation.time_warp")
	}
	if v.IsSet("simulation.epoch") {
		epoch, err := time.Parse(time.RFC3339, v.GetString("simulation.epoch"))
		if err != nil {
			return cfg, newConfigError("simulation.epoch: %s", err)
		}
		cfg.Epoch = epoch
	}
	if v.IsSet("trajectory.chunk_size") {
		cfg.ChunkSize = v.GetInt("trajectory.chunk_size")
	}
	if v.IsSet("perturbations.oblateness") {
		cfg.Perturbations.Oblateness = v.GetBool("perturbations.oblateness")
	}
	if v.IsSet("perturbations.third_body") {
		cfg.Perturbations.ThirdBody = v.GetBool("perturbations.third_body")
	}
	if v.IsSet("perturbations.drag") {
		cfg.Perturbations.Drag = v.GetBool("perturbations.drag")
	}
	cfg.VSOP87 = v.GetBool("VSOP87.enabled")
	cfg.VSOP87Dir = v.GetString("VSOP87.directory")
	cfg.MetricsAddr = v.GetString("metrics.listen")
	if v.IsSet("general.output_path") {
		cfg.OutputPath = v.GetString("general.output_path")
	}
	return cfg, cfg.validate()
}

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	reentry "github.com/JMMonte/Reentry-v2-sub013"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// Reads the configuration, assembles the engine, optionally seeds satellites
// from the config file, and runs until interrupted.

var (
	confPath string
	verbose  bool
)

func init() {
	flag.StringVar(&confPath, "conf", ".", "directory holding conf.toml")
	flag.BoolVar(&verbose, "verbose", false, "log debug information")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	cfg, err := reentry.LoadConfig(confPath)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	reg, err := reentry.NewSolarSystemRegistry()
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	var eph reentry.EphemerisProvider
	eph = reentry.NewKeplerianEphemeris(reg)
	if cfg.VSOP87 {
		eph, err = reentry.NewVSOP87Ephemeris(reg, cfg.VSOP87Dir)
		if err != nil {
			logger.Log("level", "critical", "err", err)
			os.Exit(1)
		}
		logger.Log("level", "info", "ephemeris", "vsop87", "dir", cfg.VSOP87Dir)
	}

	metrics, err := reentry.NewEngineMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	eng, err := reentry.NewEngine(cfg, reg, eph, logger, metrics)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Log("level", "error", "subsys", "metrics", "err", err)
			}
		}()
		logger.Log("level", "info", "metrics", cfg.MetricsAddr)
	}

	ids, err := seedSatellites(eng, confPath)
	if err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}

	sub := eng.Subscribe(64)
	defer sub.Unsubscribe()
	eng.Start()
	defer eng.Stop()
	logger.Log("level", "info", "epoch", cfg.Epoch.UTC(), "step", cfg.StepSize, "satellites", len(ids))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case ev := <-sub.C:
			switch ev.Kind {
			case reentry.EventStateUpdated:
				if verbose {
					logger.Log("level", "debug", "epoch", ev.State.Epoch.UTC(), "version", ev.State.Version)
				}
			case reentry.EventLag:
				logger.Log("level", "warning", "lag", ev.Lag)
			case reentry.EventSatelliteFrozen:
				logger.Log("level", "critical", "satellite", ev.Satellite, "frozen", true, "err", ev.Err)
			}
		case <-sig:
			logger.Log("level", "info", "msg", "shutting down")
			return
		}
	}
}

// seedSatellites adds the satellites declared in conf.toml under
// [satellites.N] blocks, indexed from 0.
func seedSatellites(eng *reentry.Engine, dir string) ([]reentry.SatelliteID, error) {
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s/conf.toml: %s", dir, err)
	}
	var ids []reentry.SatelliteID
	for no := 0; v.IsSet(fmt.Sprintf("satellites.%d", no)); no++ {
		key := func(field string) string { return fmt.Sprintf("satellites.%d.%s", no, field) }
		params := reentry.SatelliteParams{
			Name:    v.GetString(key("name")),
			Central: reentry.BodyID(v.GetString(key("body"))),
			Mass:    v.GetFloat64(key("mass")),
			Cd:      v.GetFloat64(key("cd")),
			Area:    v.GetFloat64(key("area")),
		}
		if v.IsSet(key("sma")) {
			params.Elements = &reentry.ClassicalElements{
				A:    v.GetFloat64(key("sma")),
				E:    v.GetFloat64(key("ecc")),
				I:    v.GetFloat64(key("inc")),
				Node: v.GetFloat64(key("RAAN")),
				Argp: v.GetFloat64(key("argPeri")),
				Nu:   v.GetFloat64(key("tAnomaly")),
			}
		} else {
			params.R = []float64{v.GetFloat64(key("rx")), v.GetFloat64(key("ry")), v.GetFloat64(key("rz"))}
			params.V = []float64{v.GetFloat64(key("vx")), v.GetFloat64(key("vy")), v.GetFloat64(key("vz"))}
		}
		id, err := eng.AddSatellite(params)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

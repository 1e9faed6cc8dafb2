package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vocoder/config"
	"github.com/cwbudde/algo-vocoder/container/wav"
	"github.com/cwbudde/algo-vocoder/dsp/signal"
	"github.com/cwbudde/algo-vocoder/engine"
	"github.com/cwbudde/algo-vocoder/jobs"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Modulator string   `arg:"" optional:"" type:"existingfile" help:"Modulator WAV: the voice whose spectral envelope is imposed"`
	Carrier   string   `arg:"" optional:"" type:"existingfile" help:"Carrier WAV; omitted renders a synthetic carrier"`
	Output    string   `short:"o" default:"vocoded.wav" help:"Output WAV path"`
	Width     *float64 `short:"w" help:"Band width 0..100, narrow to broad (default from config)"`
	Config    string   `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Freq      float64  `default:"110" help:"Synthetic carrier frequency in Hz"`
	Noise     bool     `help:"Use a white-noise synthetic carrier instead of a sawtooth"`
	Verbose   bool     `short:"v" help:"Enable debug logging"`
	Version   bool     `help:"Show version information"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("vocoder"),
		kong.Description("Offline 16-band vocoder"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if cliArgs.Version {
		fmt.Println("vocoder", version)
		os.Exit(0)
	}

	if cliArgs.Modulator == "" {
		fmt.Fprintln(os.Stderr, "vocoder: no modulator file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := run(cliArgs); err != nil {
		fmt.Fprintln(os.Stderr, "vocoder:", err)
		os.Exit(1)
	}
}

func run(cliArgs *CLI) error {
	cfg := config.Default()

	if cliArgs.Config != "" {
		loaded, err := config.LoadConfig(cliArgs.Config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		cfg = loaded
	}

	width := resolveWidth(cfg, cliArgs.Width)

	log, err := buildLogger(cfg.LogLevel, cliArgs.Verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	modData, err := os.ReadFile(cliArgs.Modulator)
	if err != nil {
		return err
	}

	carData, err := loadCarrier(cliArgs, modData)
	if err != nil {
		return err
	}

	pool := jobs.NewPool(
		engine.New(engine.WithLogger(log)),
		jobs.WithWorkers(cfg.Pool.Workers),
		jobs.WithQueueCapacity(cfg.Pool.QueueCapacity),
		jobs.WithLogger(log),
	)
	defer pool.Close()

	job, err := pool.Submit(context.Background(), modData, carData, width)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	out, err := job.Wait(context.Background())
	if err != nil {
		return err
	}

	if err := os.WriteFile(cliArgs.Output, out, 0o644); err != nil {
		return err
	}

	log.Info("wrote output",
		zap.String("path", cliArgs.Output),
		zap.Int("bytes", len(out)),
		zap.Float64("width", width))

	return nil
}

// resolveWidth prefers an explicit flag over the config default. The
// flag value is passed through unchecked, even when out of range, so
// the engine's own validation reports it.
func resolveWidth(cfg *config.Config, flag *float64) float64 {
	if flag != nil {
		return *flag
	}

	return cfg.Render.Width
}

// loadCarrier reads the carrier file, or synthesizes one matching the
// modulator's duration when no file was given.
func loadCarrier(cliArgs *CLI, modData []byte) ([]byte, error) {
	if cliArgs.Carrier != "" {
		return os.ReadFile(cliArgs.Carrier)
	}

	mod, err := wav.Decode(modData)
	if err != nil {
		return nil, fmt.Errorf("decode modulator for carrier length: %w", err)
	}

	frames := mod.Len() * engine.OutputSampleRate / mod.SampleRate
	if frames == 0 {
		return nil, fmt.Errorf("modulator too short to derive a carrier")
	}

	g, err := signal.NewGenerator(engine.OutputSampleRate, signal.WithSeed(1))
	if err != nil {
		return nil, err
	}

	var samples []float64
	if cliArgs.Noise {
		samples, err = g.WhiteNoise(0.8, frames)
	} else {
		samples, err = g.Sawtooth(cliArgs.Freq, 0.8, frames)
	}

	if err != nil {
		return nil, err
	}

	return wav.Encode(engine.OutputSampleRate, samples)
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	if verbose {
		level = "debug"
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg.Level = lvl

	return cfg.Build()
}

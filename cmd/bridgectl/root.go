package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/guitaracc/basestation/configstore"
	"github.com/guitaracc/basestation/internal/devcfg"
	"github.com/guitaracc/basestation/internal/flash"
)

var (
	// Global flags
	stationPath string
	verbose     bool
	jsonOut     bool
	noColor     bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bridgectl",
	Short: "Manage the motion-to-MIDI bridge configuration store",
	Long: `bridgectl inspects and edits the persistent configuration of a
motion-to-MIDI bridge station. Settings live in a redundant, integrity-
verified store inside a raw flash image; every change is committed through
the crash-safe ping-pong protocol the firmware uses.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&stationPath, "station", "s", "station.yaml", "Path to the station file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the station's flash image and initializes the store.
// The returned closer releases the image mapping.
func openStore() (*configstore.Store, func(), error) {
	station, err := devcfg.Load(stationPath)
	if err != nil {
		return nil, nil, err
	}

	dev, err := flash.OpenFile(station.Flash.Image, station.Flash.EraseBlock)
	if err != nil {
		return nil, nil, fmt.Errorf("open flash image: %w", err)
	}

	opts := []configstore.Option{
		configstore.WithLogger(logger),
		configstore.WithDefaultWriteAllowed(station.Store.AllowDefaultWrite),
	}
	if station.Store.Integrity == "checksum" {
		opts = append(opts, configstore.WithIntegrityMode(configstore.IntegrityChecksum))
	}

	st, err := configstore.Open(dev, opts...)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	if err := st.Init(); err != nil {
		dev.Close()
		return nil, nil, err
	}
	return st, func() { _ = dev.Close() }, nil
}

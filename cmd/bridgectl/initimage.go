package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guitaracc/basestation/internal/devcfg"
	"github.com/guitaracc/basestation/internal/flash"
)

var initImageForce bool

var initImageCmd = &cobra.Command{
	Use:   "init-image",
	Short: "Create a blank flash image for the station",
	Long: `Creates a fully erased flash image at the path and size the station
file names. The next store open over it runs the cold-start defaults chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		station, err := devcfg.Load(stationPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(station.Flash.Image); err == nil && !initImageForce {
			return fmt.Errorf("%s already exists; re-run with --force to overwrite", station.Flash.Image)
		}

		blank := make([]byte, station.Flash.SizeBytes)
		for i := range blank {
			blank[i] = flash.EraseValue
		}
		if err := os.WriteFile(station.Flash.Image, blank, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		fmt.Printf("created %s (%d bytes, erase block %d)\n",
			station.Flash.Image, station.Flash.SizeBytes, station.Flash.EraseBlock)
		return nil
	},
}

func init() {
	initImageCmd.Flags().BoolVar(&initImageForce, "force", false, "Overwrite an existing image")
	rootCmd.AddCommand(initImageCmd)
}

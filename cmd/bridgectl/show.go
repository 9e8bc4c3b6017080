package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		cfg, err := st.Load()
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"midi_channel":     cfg.MIDIChannel,
				"velocity_curve":   cfg.VelocityCurve,
				"cc_mapping":       cfg.CCMapping,
				"max_guitars":      cfg.MaxGuitars,
				"scan_interval_ms": cfg.ScanIntervalMS,
				"led_brightness":   cfg.LEDBrightness,
				"led_mode":         cfg.LEDMode,
				"accel_deadzone":   cfg.AccelDeadzone,
				"accel_scale":      cfg.AccelScale,
				"active_patch":     cfg.ActivePatch,
				"patch_count":      cfg.PatchCount,
			})
		}

		heading := color.New(color.Bold)
		if noColor {
			heading.DisableColor()
		}

		heading.Println("MIDI")
		fmt.Printf("  channel:        %d\n", cfg.MIDIChannel)
		fmt.Printf("  velocity curve: %d\n", cfg.VelocityCurve)
		fmt.Printf("  cc mapping:     %v\n", cfg.CCMapping)

		heading.Println("Radio")
		fmt.Printf("  max guitars:    %d\n", cfg.MaxGuitars)
		fmt.Printf("  scan interval:  %d ms\n", cfg.ScanIntervalMS)

		heading.Println("LED")
		fmt.Printf("  brightness:     %d\n", cfg.LEDBrightness)
		fmt.Printf("  mode:           %d\n", cfg.LEDMode)

		heading.Println("Motion")
		fmt.Printf("  deadzone:       %d\n", cfg.AccelDeadzone)
		fmt.Printf("  scale:          %v\n", cfg.AccelScale)

		heading.Println("Patches")
		fmt.Printf("  populated:      %d\n", cfg.PatchCount)
		if p, ok := cfg.ActivePatchData(); ok {
			fmt.Printf("  active:         %d (%s)\n", cfg.ActivePatch, p.NameString())
		} else {
			fmt.Println("  active:         none")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

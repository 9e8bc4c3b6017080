package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guitaracc/basestation/configstore"
)

var setCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set one configuration field and save",
	Long: `Sets a single global configuration field and commits the change.

Fields:
  midi-channel     MIDI channel, 0-15
  velocity-curve   velocity curve, 0-3
  cc0..cc5         CC number for one motion axis
  max-guitars      maximum connected instruments, 1-4
  scan-interval    scan interval in milliseconds
  led-brightness   LED brightness, 0-255
  led-mode         LED mode, 0-3
  accel-deadzone   motion deadzone (signed)
  scale0..scale5   per-axis motion scale, 1000 = 1.0x (signed)`,
	Args: cobra.ExactArgs(2),
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
		if err := applyField(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := st.Save(cfg); err != nil {
			return err
		}

		info, err := st.Info()
		if err != nil {
			return err
		}
		fmt.Printf("saved %s=%s (area %s, seq %d)\n", args[0], args[1], info.Active, info.Sequence)
		return nil
	},
}

// applyField parses value and stores it in the named field of cfg.
func applyField(cfg *configstore.ConfigData, field, value string) error {
	parseU8 := func(max uint64) (uint8, error) {
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q for %s: %w", value, field, err)
		}
		if v > max {
			return 0, fmt.Errorf("%s must be at most %d, got %d", field, max, v)
		}
		return uint8(v), nil
	}
	parseI16 := func() (int16, error) {
		v, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q for %s: %w", value, field, err)
		}
		return int16(v), nil
	}

	switch {
	case field == "midi-channel":
		v, err := parseU8(15)
		if err != nil {
			return err
		}
		cfg.MIDIChannel = v
	case field == "velocity-curve":
		v, err := parseU8(3)
		if err != nil {
			return err
		}
		cfg.VelocityCurve = v
	case field == "max-guitars":
		v, err := parseU8(4)
		if err != nil {
			return err
		}
		if v == 0 {
			return fmt.Errorf("max-guitars must be at least 1")
		}
		cfg.MaxGuitars = v
	case field == "scan-interval":
		v, err := parseU8(255)
		if err != nil {
			return err
		}
		cfg.ScanIntervalMS = v
	case field == "led-brightness":
		v, err := parseU8(255)
		if err != nil {
			return err
		}
		cfg.LEDBrightness = v
	case field == "led-mode":
		v, err := parseU8(3)
		if err != nil {
			return err
		}
		cfg.LEDMode = v
	case field == "accel-deadzone":
		v, err := parseI16()
		if err != nil {
			return err
		}
		cfg.AccelDeadzone = v
	case strings.HasPrefix(field, "cc"):
		axis, err := parseAxis(field, "cc")
		if err != nil {
			return err
		}
		v, err := parseU8(127)
		if err != nil {
			return err
		}
		cfg.CCMapping[axis] = v
	case strings.HasPrefix(field, "scale"):
		axis, err := parseAxis(field, "scale")
		if err != nil {
			return err
		}
		v, err := parseI16()
		if err != nil {
			return err
		}
		cfg.AccelScale[axis] = v
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// parseAxis extracts the axis index from fields like cc3 or scale5.
func parseAxis(field, prefix string) (int, error) {
	axis, err := strconv.Atoi(strings.TrimPrefix(field, prefix))
	if err != nil || axis < 0 || axis >= configstore.NumAxes {
		return 0, fmt.Errorf("unknown field %q (axes are %s0..%s%d)",
			field, prefix, prefix, configstore.NumAxes-1)
	}
	return axis, nil
}

func init() {
	rootCmd.AddCommand(setCmd)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guitaracc/basestation/configstore"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Manage named patches",
}

var patchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List populated patches",
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

		active := color.New(color.FgGreen)
		if noColor {
			active.DisableColor()
		}
		for i := 0; i < int(cfg.PatchCount); i++ {
			p, err := cfg.PatchAt(i)
			if err != nil {
				return err
			}
			marker := " "
			if int(cfg.ActivePatch) == i {
				marker = "*"
			}
			line := fmt.Sprintf("%s %3d  %-15s  ch=%d", marker, i, p.NameString(), p.MIDIChannel)
			if marker == "*" {
				active.Println(line)
			} else {
				fmt.Println(line)
			}
		}
		if cfg.PatchCount == 0 {
			fmt.Println("no patches")
		}
		return nil
	},
}

var patchShowCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one patch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid patch index %q", args[0])
		}

		st, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		cfg, err := st.Load()
		if err != nil {
			return err
		}
		p, err := cfg.PatchAt(idx)
		if err != nil {
			return err
		}

		fmt.Printf("name:           %s\n", p.NameString())
		fmt.Printf("midi channel:   %d\n", p.MIDIChannel)
		fmt.Printf("velocity curve: %d\n", p.VelocityCurve)
		fmt.Printf("cc mapping:     %v\n", p.CCMapping)
		fmt.Printf("deadzone:       %d\n", p.AccelDeadzone)
		fmt.Printf("scale:          %v\n", p.AccelScale)
		return nil
	},
}

var patchSetNameCmd = &cobra.Command{
	Use:   "set-name <index> <name>",
	Short: "Rename a patch (creates the next free slot when index == count)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid patch index %q", args[0])
		}

		st, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		cfg, err := st.Load()
		if err != nil {
			return err
		}

		var p configstore.Patch
		if idx < int(cfg.PatchCount) {
			if p, err = cfg.PatchAt(idx); err != nil {
				return err
			}
		}
		p.SetName(args[1])
		if err := cfg.SetPatch(idx, p); err != nil {
			return err
		}
		if err := st.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("patch %d named %q\n", idx, p.NameString())
		return nil
	},
}

var patchActivateCmd = &cobra.Command{
	Use:   "activate <index>",
	Short: "Select the active patch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid patch index %q", args[0])
		}

		st, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		cfg, err := st.Load()
		if err != nil {
			return err
		}
		if err := cfg.SetActivePatch(idx); err != nil {
			return err
		}
		if err := st.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("patch %d active\n", idx)
		return nil
	},
}

func init() {
	patchCmd.AddCommand(patchListCmd)
	patchCmd.AddCommand(patchShowCmd)
	patchCmd.AddCommand(patchSetNameCmd)
	patchCmd.AddCommand(patchActivateCmd)
	rootCmd.AddCommand(patchCmd)
}

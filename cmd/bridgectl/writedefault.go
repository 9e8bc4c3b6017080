package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var writeDefaultUnlock bool

var writeDefaultCmd = &cobra.Command{
	Use:    "write-default",
	Short:  "Write the current configuration to the DEFAULT region",
	Hidden: true,
	Long: `Stamps the currently active configuration as the factory defaults.

Manufacturing path: the station file must set store.allow_default_write,
and --unlock must be passed to arm the one-shot runtime gate. The gate
clears again after a single write attempt.`,
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

		if writeDefaultUnlock {
			if err := st.UnlockDefaultWrite(); err != nil {
				return err
			}
		}
		if err := st.WriteDefault(cfg); err != nil {
			return err
		}
		fmt.Println("DEFAULT region written")
		return nil
	},
}

func init() {
	writeDefaultCmd.Flags().BoolVar(&writeDefaultUnlock, "unlock", false,
		"Arm the one-shot DEFAULT write gate")
	rootCmd.AddCommand(writeDefaultCmd)
}

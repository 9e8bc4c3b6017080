package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eraseForce bool

var eraseCmd = &cobra.Command{
	Use:    "erase-all",
	Short:  "Erase every configuration region (destructive)",
	Hidden: true,
	Long: `Erases the DEFAULT region and both rotating regions, bypassing the
record structure. Irreversible: all stored configuration including the
factory defaults is lost, and the next boot falls back to the built-in
defaults. Test and manufacturing use only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !eraseForce {
			return fmt.Errorf("erase-all is destructive and irreversible; re-run with --force")
		}

		st, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if err := st.EraseAll(); err != nil {
			return err
		}
		fmt.Println("all configuration areas erased")
		return nil
	},
}

func init() {
	eraseCmd.Flags().BoolVar(&eraseForce, "force", false, "Confirm the destructive erase")
	rootCmd.AddCommand(eraseCmd)
}

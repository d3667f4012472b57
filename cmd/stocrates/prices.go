package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// --- price command ---

var priceCmd = &cobra.Command{
	Use:   "price SYMBOL DATE",
	Short: "Look up a historical close (DATE as YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.GetPrice(args[0], args[1])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no price for %s on %s", strings.ToUpper(args[0]), args[1])
		}

		fmt.Printf("%s %s: %.2f\n", p.Symbol, args[1], p.Close)
		if p.Date != args[1] {
			fmt.Printf("(market closed; last close on %s)\n", p.Date)
		}
		return nil
	},
}

// --- prices command ---

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Manage historical price data",
}

var pricesImportCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Import symbol,date,close rows from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ImportPricesCSV(f)
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		fmt.Printf("Imported %d closes from %s\n", n, args[0])
		return nil
	},
}

func init() {
	pricesCmd.AddCommand(pricesImportCmd)
}

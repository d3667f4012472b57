package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the symbols scanned by 'stocrates scan'",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.GetWatchlist()
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("Watchlist is empty. Add a symbol with: stocrates watchlist add SYMBOL")
			return nil
		}

		fmt.Println("Watchlist:")
		fmt.Println()
		for _, w := range items {
			icon := " "
			if w.IsActive {
				icon = "*"
			}
			line := fmt.Sprintf("  %s %s", icon, w.Symbol)
			if w.DisplayName != nil && *w.DisplayName != "" {
				line += "  " + *w.DisplayName
			}
			fmt.Println(line)
		}
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add SYMBOL [display name]",
	Short: "Add a symbol",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		symbol := strings.ToUpper(args[0])
		var name *string
		if len(args) > 1 {
			n := strings.Join(args[1:], " ")
			name = &n
		}

		id, err := db.AddWatch(symbol, name)
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Printf("%s is already on the watchlist\n", symbol)
			return nil
		}
		fmt.Printf("Added %s\n", symbol)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove SYMBOL",
	Short: "Remove a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		symbol := strings.ToUpper(args[0])
		ok, err := db.RemoveWatch(symbol)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s is not on the watchlist", symbol)
		}
		fmt.Printf("Removed %s\n", symbol)
		return nil
	},
}

var watchlistToggleCmd = &cobra.Command{
	Use:   "toggle SYMBOL",
	Short: "Pause or resume scanning a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		symbol := strings.ToUpper(args[0])
		w, err := db.GetWatch(symbol)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%s is not on the watchlist", symbol)
		}

		if _, err := db.ToggleWatch(symbol); err != nil {
			return err
		}
		newState := "paused"
		if !w.IsActive {
			newState = "active"
		}
		fmt.Printf("%s: %s\n", symbol, newState)
		return nil
	},
}

func init() {
	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistToggleCmd)
}

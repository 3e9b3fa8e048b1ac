package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/RetroMaximus/crudehelpgen/internal/config"
	"github.com/RetroMaximus/crudehelpgen/internal/state"
)

// exclusionsCmd manages the persisted exclusion set.
var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Manage declaration names excluded from generated help",
	Long: `The exclusion set hides declarations from generated help files without
affecting their fingerprints. Entries are exact names or glob patterns
(e.g. "_*" hides underscore-prefixed helpers).`,
}

var exclusionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the persisted exclusion set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store state.Store) error {
			names, err := store.LoadExclusions()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No exclusions configured.")
				return nil
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var exclusionsAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Add names or patterns to the exclusion set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store state.Store) error {
			names, err := store.LoadExclusions()
			if err != nil {
				return err
			}
			existing := make(map[string]bool, len(names))
			for _, name := range names {
				existing[name] = true
			}
			for _, name := range args {
				if !existing[name] {
					names = append(names, name)
					existing[name] = true
				}
			}
			if err := store.SaveExclusions(names); err != nil {
				return err
			}
			fmt.Printf("Exclusion set now has %d entr%s.\n", len(names), plural(len(names), "y", "ies"))
			return nil
		})
	},
}

var exclusionsRemoveCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Remove names or patterns from the exclusion set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store state.Store) error {
			names, err := store.LoadExclusions()
			if err != nil {
				return err
			}
			drop := make(map[string]bool, len(args))
			for _, name := range args {
				drop[name] = true
			}
			kept := names[:0]
			for _, name := range names {
				if !drop[name] {
					kept = append(kept, name)
				}
			}
			if err := store.SaveExclusions(kept); err != nil {
				return err
			}
			fmt.Printf("Exclusion set now has %d entr%s.\n", len(kept), plural(len(kept), "y", "ies"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exclusionsCmd)
	exclusionsCmd.AddCommand(exclusionsListCmd)
	exclusionsCmd.AddCommand(exclusionsAddCmd)
	exclusionsCmd.AddCommand(exclusionsRemoveCmd)
}

// withStore opens the configured store, runs fn, and closes it.
func withStore(fn func(state.Store) error) error {
	rootDir, err := resolveRootDir()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return err
	}
	store, err := openStore(rootDir, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

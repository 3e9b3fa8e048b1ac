package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RetroMaximus/crudehelpgen/internal/config"
	"github.com/RetroMaximus/crudehelpgen/internal/generator"
	"github.com/RetroMaximus/crudehelpgen/internal/state"
)

var (
	outputFlag      string
	includeArgsFlag bool
	noOverwriteFlag bool
	quietFlag       bool
	watchFlag       bool
	excludeFlag     []string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [module or directory]",
	Short: "Generate Markdown help files for Python modules",
	Long: `Generate parses the given Python module (or every module under the
given directory), fingerprints each class and function, and writes a
navigable Markdown help file next to each module.

A fingerprint snapshot is kept under the state directory; when nothing
semantically relevant changed since the last run, the help file is left
untouched.

Examples:
  # Generate help for one module
  crudehelpgen generate mylib.py

  # Generate help for every module under src/
  crudehelpgen generate src/

  # Include a separate arguments block per function
  crudehelpgen generate mylib.py --include-args

  # Watch a directory and regenerate on change
  crudehelpgen generate src/ --watch
`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (single-module mode only)")
	generateCmd.Flags().BoolVar(&includeArgsFlag, "include-args", false, "Render parameter details as a separate block")
	generateCmd.Flags().BoolVar(&noOverwriteFlag, "no-overwrite", false, "Never replace an existing help file")
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for module changes and regenerate")
	generateCmd.Flags().StringSliceVar(&excludeFlag, "exclude", nil, "Extra declaration names or patterns to exclude")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling generation...")
		cancel()
	}()

	rootDir, err := resolveRootDir()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return err
	}
	if includeArgsFlag {
		cfg.Output.IncludeArgs = true
	}
	if noOverwriteFlag {
		cfg.Output.Overwrite = false
	}

	store, err := openStore(rootDir, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	gen, err := generator.New(store, cfg, excludeFlag, quietFlag, verbose)
	if err != nil {
		return err
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if !info.IsDir() {
		if outputFlag != "" {
			_, err := gen.GenerateTo(ctx, target, outputFlag)
			return err
		}
		_, err := gen.Generate(ctx, target)
		return err
	}

	if outputFlag != "" {
		return fmt.Errorf("--output is only valid for a single module, not a directory")
	}

	discovery, err := generator.NewModuleDiscovery(target, cfg.State.Dir, cfg.Paths.Modules, cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	if err := generateTree(ctx, gen, discovery, quietFlag); err != nil {
		return err
	}

	if watchFlag {
		return watchTree(ctx, gen, discovery, target, cfg)
	}
	return nil
}

// generateTree runs one generation pass over every discovered module.
func generateTree(ctx context.Context, gen *generator.Generator, discovery *generator.ModuleDiscovery, quiet bool) error {
	modules, err := discovery.DiscoverModules()
	if err != nil {
		return fmt.Errorf("failed to discover modules: %w", err)
	}
	if len(modules) == 0 {
		if !quiet {
			fmt.Println("No Python modules found.")
		}
		return nil
	}

	progress := NewProgressReporter(quiet)
	progress.OnStart(len(modules))

	var regenerated, upToDate int
	for _, module := range modules {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := gen.Generate(ctx, module)
		if err != nil {
			return err
		}
		if result.Regenerated {
			regenerated++
		}
		if result.UpToDate {
			upToDate++
		}
		progress.OnModuleProcessed(filepath.Base(module))
	}

	progress.OnComplete(len(modules), regenerated, upToDate)
	return nil
}

// watchTree blocks watching the tree until the context is cancelled.
func watchTree(ctx context.Context, gen *generator.Generator, discovery *generator.ModuleDiscovery, rootDir string, cfg *config.Config) error {
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	watcher, err := generator.NewWatcher(gen, discovery, rootDir, debounce)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", rootDir)
	watcher.Start(ctx)

	<-ctx.Done()
	return nil
}

// openStore constructs the configured state backend, rooted at the project.
func openStore(rootDir string, cfg *config.Config) (state.Store, error) {
	stateDir := cfg.State.Dir
	if !filepath.IsAbs(stateDir) {
		stateDir = filepath.Join(rootDir, stateDir)
	}

	switch cfg.State.Backend {
	case "sqlite":
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory %s: %w", stateDir, err)
		}
		return state.NewSQLiteStore(filepath.Join(stateDir, "state.db"))
	default:
		return state.NewJSONStore(stateDir)
	}
}

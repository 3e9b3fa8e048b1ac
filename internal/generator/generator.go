package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/RetroMaximus/crudehelpgen/internal/config"
	"github.com/RetroMaximus/crudehelpgen/internal/fingerprint"
	"github.com/RetroMaximus/crudehelpgen/internal/pydoc"
	"github.com/RetroMaximus/crudehelpgen/internal/render"
	"github.com/RetroMaximus/crudehelpgen/internal/state"
)

// Result describes what one generation pass did for one module.
type Result struct {
	Module      string
	OutputPath  string
	Regenerated bool // document was rendered and written
	UpToDate    bool // no changes and output already existed
	Skipped     bool // overwrite disabled and output already existed
	Changes     *fingerprint.ChangeSet
}

// Generator runs the full pipeline for one module at a time: parse,
// fingerprint, compare against the persisted record, and render only when
// something semantically relevant changed. The fresh fingerprint record is
// persisted after every completed parse, regardless of the decision.
type Generator struct {
	parser   *pydoc.Parser
	store    state.Store
	renderer *render.Renderer
	cfg      *config.Config
	quiet    bool
	verbose  bool
}

// New creates a generator. The exclusion set is loaded from the store once
// per run and merged with any extra entries from configuration or flags.
func New(store state.Store, cfg *config.Config, extraExclusions []string, quiet, verbose bool) (*Generator, error) {
	persisted, err := store.LoadExclusions()
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion list: %w", err)
	}

	exclusions, err := render.NewExclusionSet(append(persisted, extraExclusions...))
	if err != nil {
		return nil, err
	}

	return &Generator{
		parser:   pydoc.NewParser(),
		store:    store,
		renderer: render.New(exclusions, render.Options{IncludeArgs: cfg.Output.IncludeArgs}),
		cfg:      cfg,
		quiet:    quiet,
		verbose:  verbose,
	}, nil
}

// Generate runs one pass for a module, deriving the output path from the
// module name.
func (g *Generator) Generate(ctx context.Context, modulePath string) (*Result, error) {
	return g.GenerateTo(ctx, modulePath, OutputPath(modulePath, g.cfg.Output.Suffix))
}

// GenerateTo runs one pass for a module with an explicit output path.
func (g *Generator) GenerateTo(ctx context.Context, modulePath, outputPath string) (*Result, error) {
	result := &Result{
		Module:     modulePath,
		OutputPath: outputPath,
	}

	if !g.cfg.Output.Overwrite && fileExists(outputPath) {
		g.logf("Help file already exists and overwrite is disabled: %s", outputPath)
		result.Skipped = true
		return result, nil
	}

	module, err := g.parser.ParseFile(ctx, modulePath)
	if err != nil {
		return nil, err
	}

	record := fingerprint.BuildRecord(module.Decls)

	previous, err := g.store.LoadFingerprints(modulePath)
	if err != nil {
		return nil, err
	}

	changes := fingerprint.Diff(record, previous)
	result.Changes = changes

	if g.verbose {
		g.logf("Fingerprint diff for %s: %d added, %d removed, %d changed, %d unchanged",
			modulePath, len(changes.Added), len(changes.Removed), len(changes.Changed), len(changes.Unchanged))
	}

	// The fresh record is persisted before anything else can fail, so the
	// next run's baseline is current even when regeneration is skipped.
	if err := g.store.SaveFingerprints(modulePath, record); err != nil {
		return nil, err
	}

	if !changes.NeedsRegeneration() && fileExists(outputPath) {
		g.logf("No changes detected in module %s, help file is up to date.", modulePath)
		result.UpToDate = true
		return result, nil
	}

	document := g.renderer.Render(module.Decls)
	if document == "" {
		// Nothing renderable (empty module or everything excluded).
		return result, nil
	}

	if err := os.WriteFile(outputPath, []byte(document), 0644); err != nil {
		return nil, fmt.Errorf("failed to write help file %s: %w", outputPath, err)
	}

	g.logf("Help file generated/updated: %s", outputPath)
	result.Regenerated = true
	return result, nil
}

// OutputPath derives the help-file path from the module path: base name with
// the ".py" suffix stripped and spaces replaced, joined with the suffix, next
// to the module.
func OutputPath(modulePath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(modulePath), ".py")
	base = strings.ReplaceAll(base, " ", "_")
	return filepath.Join(filepath.Dir(modulePath), base+"-"+suffix)
}

// logf emits a status line unless quiet mode is on.
func (g *Generator) logf(format string, args ...any) {
	if g.quiet {
		return
	}
	log.Printf(format, args...)
}

// fileExists reports whether path exists on the destination medium.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package generator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob. Patterns
// starting with **/ also carry a simplified variant so root-level files match
// the way users expect ("**/*.py" matches both "app.py" and "pkg/util.py").
type compiledPattern struct {
	pattern    string
	glob       glob.Glob
	simplified glob.Glob
}

// ModuleDiscovery finds Python modules under a root directory using glob
// patterns with ignore rules.
type ModuleDiscovery struct {
	rootDir        string
	stateDir       string
	modulePatterns []compiledPattern
	ignorePatterns []compiledPattern
}

// NewModuleDiscovery compiles the module and ignore patterns.
func NewModuleDiscovery(rootDir, stateDir string, modulePatterns, ignorePatterns []string) (*ModuleDiscovery, error) {
	d := &ModuleDiscovery{
		rootDir:  rootDir,
		stateDir: strings.Trim(filepath.ToSlash(stateDir), "/"),
	}

	for _, pattern := range modulePatterns {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		d.modulePatterns = append(d.modulePatterns, cp)
	}

	for _, pattern := range ignorePatterns {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, cp)
	}

	return d, nil
}

func compilePattern(pattern string) (compiledPattern, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return compiledPattern{}, err
	}
	cp := compiledPattern{pattern: pattern, glob: g}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		if simplified, err := glob.Compile(rest, '/'); err == nil {
			cp.simplified = simplified
		}
	}
	return cp, nil
}

// DiscoverModules walks the directory tree and returns matching module
// paths, sorted for deterministic processing order.
func (d *ModuleDiscovery) DiscoverModules() ([]string, error) {
	modules := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(d.rootDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if path != d.rootDir && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Matches(relPath) {
			modules = append(modules, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(modules)
	return modules, nil
}

// Matches reports whether a relative path is a non-ignored module.
func (d *ModuleDiscovery) Matches(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	return matchesAny(relPath, d.modulePatterns)
}

// shouldIgnore checks the ignore patterns. The state directory is always
// ignored so generated snapshots never feed back into discovery.
func (d *ModuleDiscovery) shouldIgnore(relPath string) bool {
	if d.stateDir != "" && (relPath == d.stateDir || strings.HasPrefix(relPath, d.stateDir+"/")) {
		return true
	}

	if matchesAny(relPath, d.ignorePatterns) {
		return true
	}

	// A directory entry matches patterns written with a /** suffix, so
	// "build" is pruned by the pattern "build/**".
	return matchesAny(relPath+"/**", d.ignorePatterns)
}

// matchesAny checks a path against the compiled patterns. The simplified
// variant covers paths anchored at the root, where the literal "/" after the
// leading ** has nothing to consume.
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.simplified != nil && cp.simplified.Match(path) {
			return true
		}
	}
	return false
}

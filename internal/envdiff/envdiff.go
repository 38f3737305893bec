// Package envdiff compares the env var names internal/envcore found
// across a set of documents against the values internal/envfile loaded,
// reporting which are missing from the loaded files and which loaded
// values nothing in the code ever touches. Adapted from
// _examples/njenia-envgrd/internal/analyzer/analyzer.go's Analyze: kept
// the missing/unused set logic, dropped the dynamic-pattern/partial-match
// branch (internal/resolver's DirectReference hits always carry a
// literal var name — there's no "prefix_ + var" runtime-evaluated
// expression in this model to report as a partial match).
package envdiff

import "github.com/jenian/envbind/internal/wsconfig"

// Usage records where one var name was found.
type Usage struct {
	VarName       string
	File          string
	Line          int
	InIgnoredPath bool
}

// Result is the full comparison.
type Result struct {
	Missing            map[string][]Usage
	Unused             []string
	IgnoredMissing     int
	IgnoredFromFolders int
}

// Compare finds names used in code but absent from loaded env values
// (Missing) and names present in loaded env values but never used in
// code (Unused), applying cfg's ignore rules exactly as the teacher's
// Analyze did.
func Compare(usages []Usage, loaded map[string]string, cfg *wsconfig.Config) Result {
	result := Result{
		Missing: make(map[string][]Usage),
		Unused:  []string{},
	}

	byName := make(map[string][]Usage)
	for _, u := range usages {
		byName[u.VarName] = append(byName[u.VarName], u)
	}

	ignoredFolderVars := make(map[string]bool)
	for name, occurrences := range byName {
		if _, exists := loaded[name]; exists {
			continue
		}

		allIgnoredPath, anyIgnoredPath := true, false
		var reportable []Usage
		for _, u := range occurrences {
			if u.InIgnoredPath {
				anyIgnoredPath = true
			} else {
				allIgnoredPath = false
				reportable = append(reportable, u)
			}
		}
		if allIgnoredPath && anyIgnoredPath {
			ignoredFolderVars[name] = true
			continue
		}

		if cfg != nil && cfg.ShouldIgnoreMissing(name) {
			result.IgnoredMissing++
			continue
		}
		if len(reportable) > 0 {
			result.Missing[name] = reportable
		}
	}
	result.IgnoredFromFolders = len(ignoredFolderVars)

	for name := range loaded {
		if _, used := byName[name]; !used {
			result.Unused = append(result.Unused, name)
		}
	}

	return result
}

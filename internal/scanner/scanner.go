// Package scanner discovers source files under a directory tree and
// tags each with the internal/langdesc grammar tag that should analyze
// it, generalizing _examples/njenia-envgrd/internal/scanner/scanner.go's
// six-language detectLanguage switch to the full sixteen-language
// registry SPEC_FULL.md names.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/envbind/internal/langdesc"
)

// LanguageUnknown marks a file whose extension maps to no registered
// language descriptor.
const LanguageUnknown = ""

// extensionLanguage maps a lowercase file extension (including the
// leading dot) to the langdesc.Descriptor.Tag that analyzes it.
var extensionLanguage = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".mts":   "typescript",
	".cts":   "typescript",
	".py":    "python",
	".pyi":   "python",
	".go":    "go",
	".rs":    "rust",
	".java":  "java",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".hh":    "cpp",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".ex":    "elixir",
	".exs":   "elixir",
	".lua":   "lua",
	".sh":    "bash",
	".bash":  "bash",
	".zig":   "zig",
}

// FileInfo describes one discovered file and the language tag that
// should analyze it.
type FileInfo struct {
	Path          string
	Language      string
	InIgnoredPath bool
}

// Scanner discovers and filters files to analyze.
type Scanner struct {
	excludeDirs  map[string]bool
	excludePaths []string
	excludeGlobs []string
	includeGlobs []string
	scanRoot     string
}

// NewScanner builds a Scanner with the teacher's default exclusions.
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
			"target":       true, // Rust/Java build output
			"_build":       true, // Elixir build output
			"zig-out":      true,
			"zig-cache":    true,
		},
	}
}

func (s *Scanner) SetExcludeGlobs(globs []string) { s.excludeGlobs = globs }
func (s *Scanner) SetIncludeGlobs(globs []string) { s.includeGlobs = globs }
func (s *Scanner) SetScanRoot(root string)        { s.scanRoot = root }

// AddExcludeDirs adds directory names or path patterns to skip, carried
// over from the teacher's folder-ignore config.
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		if strings.Contains(dir, "/") || strings.Contains(dir, "\\") {
			s.excludePaths = append(s.excludePaths, dir)
		} else {
			s.excludeDirs[dir] = true
		}
	}
}

// detectLanguage determines a file's langdesc tag from its extension.
// Scan itself double-checks the tag against langdesc.Lookup before
// including a file, so a stale entry here just means the file is
// skipped rather than mis-tagged.
func detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionLanguage[ext]
}

// DetectLanguage exposes detectLanguage for callers that need to tag a
// single path without running a full Scan, such as envbindd's classify
// subcommand.
func DetectLanguage(path string) string {
	return detectLanguage(path)
}

func isBinaryFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	binaryExts := map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true,
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
		".ico": true, ".svg": true, ".mp4": true, ".mp3": true,
	}
	return binaryExts[ext]
}

func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		if matched, _ := filepath.Match(glob, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := filepath.Match(glob, path); matched {
			return true
		}
	}
	return false
}

func (s *Scanner) shouldInclude(path string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(path, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(path, s.excludeGlobs)
	}
	return true
}

func (s *Scanner) isInIgnoredPath(filePath string) bool {
	if s.scanRoot == "" || len(s.excludePaths) == 0 {
		return false
	}

	relPath, err := filepath.Rel(s.scanRoot, filePath)
	if err != nil {
		return false
	}
	relPathNormalized := filepath.ToSlash(relPath)

	for _, excludePath := range s.excludePaths {
		excludePathNormalized := filepath.ToSlash(excludePath)
		if relPathNormalized == excludePathNormalized {
			return true
		}
		if strings.HasPrefix(relPathNormalized, excludePathNormalized+"/") {
			return true
		}
		if strings.HasSuffix(excludePathNormalized, "/*") {
			prefix := strings.TrimSuffix(excludePathNormalized, "/*")
			if strings.HasPrefix(relPathNormalized, prefix+"/") || relPathNormalized == prefix {
				return true
			}
		}
	}
	return false
}

// Scan recursively walks rootPath and returns every file whose language
// is registered in internal/langdesc, applying exclude-dir/path/glob
// filters along the way.
func (s *Scanner) Scan(rootPath string) ([]FileInfo, error) {
	var files []FileInfo
	s.scanRoot = rootPath

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if s.excludeDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		inIgnoredPath := s.isInIgnoredPath(path)

		if isBinaryFile(path) {
			return nil
		}
		if !s.shouldInclude(path) {
			return nil
		}

		lang := detectLanguage(path)
		if lang == LanguageUnknown {
			return nil
		}
		if _, ok := langdesc.Lookup(lang); !ok {
			return nil
		}

		files = append(files, FileInfo{
			Path:          path,
			Language:      lang,
			InIgnoredPath: inIgnoredPath,
		})
		return nil
	})

	return files, err
}

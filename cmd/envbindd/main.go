package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jenian/envbind/internal/analysisworker"
	"github.com/jenian/envbind/internal/envcache"
	"github.com/jenian/envbind/internal/envcore"
	"github.com/jenian/envbind/internal/envdiff"
	"github.com/jenian/envbind/internal/envfile"
	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/lspconv"
	"github.com/jenian/envbind/internal/metrics"
	"github.com/jenian/envbind/internal/obslog"
	"github.com/jenian/envbind/internal/output"
	"github.com/jenian/envbind/internal/resolver"
	"github.com/jenian/envbind/internal/scanner"
	"github.com/jenian/envbind/internal/wsconfig"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "envbindd",
		Short: "Bind environment variable references to their declared origins",
		Long:  "envbindd scans a codebase, binds each environment variable reference to its declared origin, and reports what's missing or unused against loaded env files.",
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [path]",
		Short: "Scan a codebase and report bound env var references",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}

	classifyCmd = &cobra.Command{
		Use:   "classify <file> <byte-offset|line:character>",
		Short: "Classify what a position in a file resolves to",
		Args:  cobra.ExactArgs(2),
		RunE:  runClassify,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run a long-lived analysis loop over newline-delimited JSON requests on stdin",
		RunE:  runServe,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .envbind.config file in the current directory",
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	scanPath     string
	jsonOutput   bool
	silent       bool
	debug        bool
	concurrency  int
	includeGlobs []string
	excludeGlobs []string
)

func init() {
	analyzeCmd.Flags().StringVarP(&scanPath, "path", "p", ".", "Path to scan (default: current directory)")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	analyzeCmd.Flags().BoolVar(&silent, "silent", false, "Silent mode (exit code only)")
	analyzeCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	analyzeCmd.Flags().IntVar(&concurrency, "concurrency", 10, "Number of documents to analyze concurrently")
	analyzeCmd.Flags().StringSliceVar(&includeGlobs, "include", []string{}, "Glob patterns to include")
	analyzeCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")

	serveCmd.Flags().IntVar(&concurrency, "concurrency", 10, "Number of documents to analyze concurrently")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	if debug {
		l, err := obslog.NewDevelopment()
		if err == nil {
			obslog.Init(l)
		}
		return
	}
	l, err := obslog.NewProduction()
	if err == nil {
		obslog.Init(l)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := scanPath
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	setupLogging()

	cfg, err := wsconfig.Load(absPath)
	if err != nil {
		if !silent {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .envbind.config: %v\n", err)
		}
		cfg = wsconfig.Default()
	}

	fileScanner := scanner.NewScanner()
	if len(includeGlobs) > 0 {
		fileScanner.SetIncludeGlobs(includeGlobs)
	}
	if len(excludeGlobs) > 0 {
		fileScanner.SetExcludeGlobs(excludeGlobs)
	}
	if len(cfg.Ignores.Folders) > 0 {
		fileScanner.AddExcludeDirs(cfg.Ignores.Folders)
	}

	if !silent {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", absPath)
	}
	files, err := fileScanner.Scan(absPath)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}

	loader := envfile.NewLoader()
	if len(cfg.EnvFiles) > 0 {
		loader.SetEnvFiles(cfg.EnvFiles)
	}
	loaded, err := loader.Load(absPath)
	if err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	docs := make([]analysisworker.Document, 0, len(files))
	byID := make(map[string]scanner.FileInfo, len(files))
	for _, f := range files {
		src, err := os.ReadFile(f.Path)
		if err != nil {
			if !silent {
				fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", f.Path, err)
			}
			continue
		}
		docs = append(docs, analysisworker.Document{ID: f.Path, Source: string(src), Language: f.Language})
		byID[f.Path] = f
	}

	var cache *envcache.Cache
	if cfg.Cache.Enabled {
		cache, err = envcache.Open(filepath.Join(absPath, cfg.Cache.Path))
		if err != nil && !silent {
			fmt.Fprintf(os.Stderr, "Warning: failed to open resolved-value cache: %v\n", err)
		}
		if cache != nil {
			defer cache.Close()
		}
	}

	core := envcore.New()
	defer core.Shutdown()
	pool := analysisworker.New(core, concurrency)
	results := pool.AnalyzeAll(cmd.Context(), docs)

	reports := make([]output.DocumentReport, 0, len(results))
	var usages []envdiff.Usage
	for _, r := range results {
		info := byID[r.Document.ID]
		report := output.DocumentReport{Path: r.Document.ID, Language: r.Document.Language, Err: r.Err}
		if r.Err == nil {
			report.References = core.DirectReferences(r.Document.ID)
			report.Symbols = core.Symbols(r.Document.ID)
			for _, ref := range report.References {
				usages = append(usages, envdiff.Usage{
					VarName:       ref.Name,
					File:          r.Document.ID,
					InIgnoredPath: info.InIgnoredPath,
				})
			}
			if cache != nil {
				cacheResolvedValues(cache, r.Document.ID, report.Symbols, loaded)
			}
		}
		reports = append(reports, report)
		core.Close(r.Document.ID)
	}

	if err := output.Format(reports, jsonOutput, silent); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	diff := envdiff.Compare(usages, loaded, cfg)
	if !silent && !jsonOutput {
		reportDiff(diff)
	}
	metrics.LogSnapshot()

	if output.HasErrors(reports) || len(diff.Missing) > 0 {
		os.Exit(1)
	}
	return nil
}

// cacheResolvedValues persists the current value of every env-sourced
// symbol in a document, keyed by (document, variable), as read from the
// loaded env files. The `classify` and `serve` commands do not read this
// cache.
func cacheResolvedValues(cache *envcache.Cache, docID string, symbols []graph.Symbol, loaded map[string]string) {
	for _, sym := range symbols {
		if sym.Origin.Kind != graph.OriginEnvVar {
			continue
		}
		value, ok := loaded[sym.Origin.EnvVarName]
		if !ok {
			continue
		}
		cache.Put(docID, sym.Origin.EnvVarName, value, "loaded env file")
	}
}

func reportDiff(diff envdiff.Result) {
	for name, occurrences := range diff.Missing {
		fmt.Printf("missing: %s (used in %d place(s))\n", name, len(occurrences))
	}
	for _, name := range diff.Unused {
		fmt.Printf("unused: %s\n", name)
	}
	if diff.IgnoredMissing > 0 || diff.IgnoredFromFolders > 0 {
		fmt.Printf("ignored: %d by name, %d by folder\n", diff.IgnoredMissing, diff.IgnoredFromFolders)
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	offset, err := resolveOffset(src, args[1])
	if err != nil {
		return err
	}

	lang := scanner.DetectLanguage(path)
	if lang == scanner.LanguageUnknown {
		return fmt.Errorf("no registered language for %s", path)
	}

	core := envcore.New()
	defer core.Shutdown()
	if err := core.Analyze(cmd.Context(), path, string(src), lang); err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	hit := core.Classify(path, offset)
	printHit(hit)
	return nil
}

// resolveOffset accepts either a bare byte offset ("142") or an
// editor-style "line:character" position, converting the latter via
// internal/lspconv so classify can be driven directly from an editor's
// cursor coordinates.
func resolveOffset(src []byte, raw string) (int, error) {
	if line, character, ok := splitLineCharacter(raw); ok {
		return lspconv.PositionToByteOffset(src, lspconv.Position{Line: line, Character: character}), nil
	}
	var offset int
	if _, err := fmt.Sscanf(raw, "%d", &offset); err != nil {
		return 0, fmt.Errorf("invalid position %q: expected a byte offset or line:character", raw)
	}
	return offset, nil
}

func splitLineCharacter(raw string) (line, character int, ok bool) {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(raw[:idx], "%d", &line); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(raw[idx+1:], "%d", &character); err != nil {
		return 0, 0, false
	}
	return line, character, true
}

func printHit(hit resolver.Hit) {
	switch hit.Kind {
	case resolver.DirectReference:
		fmt.Printf("direct-reference %s [%d,%d)\n", hit.VarName, hit.Span.Start, hit.Span.End)
	case resolver.SymbolDeclaration:
		fmt.Printf("symbol-declaration [%d,%d)\n", hit.Span.Start, hit.Span.End)
	case resolver.Usage:
		fmt.Printf("usage [%d,%d)\n", hit.Span.Start, hit.Span.End)
	default:
		fmt.Println("none")
	}
}

// serveRequest/serveResponse are the newline-delimited JSON contract
// runServe speaks on stdin/stdout, exercising envcore and
// analysisworker the way an editor integration would: one document per
// line in, one result per line out.
type serveRequest struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Language string `json:"language"`
}

type serveResponse struct {
	ID         string         `json:"id"`
	Error      string         `json:"error,omitempty"`
	References []jsonServeRef `json:"references,omitempty"`
}

type jsonServeRef struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogging()
	core := envcore.New()
	defer core.Shutdown()
	pool := analysisworker.New(core, concurrency)

	lines := bufio.NewScanner(os.Stdin)
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	encoder := json.NewEncoder(os.Stdout)

	for lines.Scan() {
		line := lines.Bytes()
		if len(line) == 0 {
			continue
		}
		var req serveRequest
		if err := json.Unmarshal(line, &req); err != nil {
			encoder.Encode(serveResponse{Error: fmt.Sprintf("invalid request: %v", err)})
			continue
		}

		results := pool.AnalyzeAll(cmd.Context(), []analysisworker.Document{{ID: req.ID, Source: req.Source, Language: req.Language}})
		r := results[0]
		resp := serveResponse{ID: req.ID}
		if r.Err != nil {
			resp.Error = r.Err.Error()
			encoder.Encode(resp)
			continue
		}
		for _, ref := range core.DirectReferences(req.ID) {
			resp.References = append(resp.References, jsonServeRef{Name: ref.Name, Start: ref.NameSpan.Start, End: ref.NameSpan.End})
		}
		encoder.Encode(resp)
	}
	metrics.LogSnapshot()
	return lines.Err()
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	configPath := ".envbind.config"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf(".envbind.config already exists in the current directory")
	}

	configContent := `# .envbind.config
# Workspace configuration for envbindd

features:
  comment_aware_filtering: true
  preserve_default_text: true
  value_masking: true

env_files:
  - .env
  - .env.local

interpolation:
  max_depth: 8

cache:
  enabled: true
  path: .envbind.cache

ignores:
  missing:
    # - CUSTOM_API_KEY
  folders:
    # - deployments
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create .envbind.config: %w", err)
	}
	fmt.Println("Created .envbind.config in the current directory")
	return nil
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

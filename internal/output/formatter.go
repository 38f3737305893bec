// Package output renders an analysis run as either JSON or a
// human-readable terminal report. Adapted from
// _examples/njenia-envgrd/internal/output/formatter.go: keeps that
// file's color-detection (x/term) and JSON/human split, retargeted from
// the teacher's present/missing .env diff to a per-document report of
// what internal/envcore found (direct references, bound symbols, and
// any scan-time errors), with masking delegated to internal/valuemask
// instead of the teacher's inline redactValue.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/valuemask"
)

var colorEnabled = initColorSupport()

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func initColorSupport() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// DocumentReport is one document's analysis result, ready to render.
type DocumentReport struct {
	Path       string
	Language   string
	References []graph.EnvReference
	Symbols    []graph.Symbol
	Err        error
}

// jsonReference/jsonSymbol/jsonDocument mirror DocumentReport in a shape
// convenient for encoding/json, keeping the internal graph types free of
// struct tags they don't otherwise need.
type jsonReference struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type jsonSymbol struct {
	Name   string `json:"name"`
	Start  int    `json:"start"`
	Origin string `json:"origin"`
}

type jsonDocument struct {
	Path       string          `json:"path"`
	Language   string          `json:"language"`
	References []jsonReference `json:"references"`
	Symbols    []jsonSymbol    `json:"symbols"`
	Error      string          `json:"error,omitempty"`
}

// Format renders reports either as JSON (one object array) or as a
// human-readable terminal report, mirroring the teacher's Format
// (jsonOutput bool, silent bool) signature.
func Format(reports []DocumentReport, jsonOutput, silent bool) error {
	if silent {
		return nil
	}
	if jsonOutput {
		return formatJSON(reports)
	}
	return formatHumanReadable(reports)
}

func formatJSON(reports []DocumentReport) error {
	out := make([]jsonDocument, 0, len(reports))
	for _, r := range reports {
		jd := jsonDocument{Path: r.Path, Language: r.Language}
		if r.Err != nil {
			jd.Error = r.Err.Error()
		}
		for _, ref := range r.References {
			jd.References = append(jd.References, jsonReference{Name: ref.Name, Start: ref.NameSpan.Start, End: ref.NameSpan.End})
		}
		for _, sym := range r.Symbols {
			jd.Symbols = append(jd.Symbols, jsonSymbol{Name: sym.Name, Start: sym.DeclSpan.Start, Origin: originLabel(sym.Origin)})
		}
		out = append(out, jd)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func formatHumanReadable(reports []DocumentReport) error {
	mask := valuemask.NewPolicy(nil)
	failed := 0

	for _, r := range reports {
		if r.Err != nil {
			failed++
			fmt.Printf("%s%s%s: %s%v%s\n", getColor(colorRed), r.Path, getColor(colorReset), getColor(colorGray), r.Err, getColor(colorReset))
			continue
		}
		if len(r.References) == 0 && len(r.Symbols) == 0 {
			continue
		}

		fmt.Printf("%s%s%s %s(%s)%s\n", getColor(colorBold), r.Path, getColor(colorReset), getColor(colorGray), r.Language, getColor(colorReset))

		names := make([]string, 0, len(r.References))
		seen := map[string]int{}
		for _, ref := range r.References {
			if _, ok := seen[ref.Name]; !ok {
				names = append(names, ref.Name)
			}
			seen[ref.Name]++
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s%s%s %s(%d use%s)%s\n", getColor(colorCyan), name, getColor(colorReset), getColor(colorGray), seen[name], plural(seen[name]), getColor(colorReset))
		}

		for _, sym := range r.Symbols {
			label := originLabel(sym.Origin)
			if label == "" {
				continue
			}
			displayed := mask.Display(sym.Name, label, valuemask.Context{})
			fmt.Printf("  %s%s%s %s->%s %s\n", getColor(colorYellow), sym.Name, getColor(colorReset), getColor(colorGray), getColor(colorReset), displayed)
		}
		fmt.Println()
	}

	if failed == 0 {
		fmt.Printf("%s%s✓ analyzed %d document(s).%s\n", getColor(colorGreen), getColor(colorBold), len(reports), getColor(colorReset))
	} else {
		fmt.Printf("%s%s%d of %d document(s) failed to analyze.%s\n", getColor(colorYellow), getColor(colorBold), failed, len(reports), getColor(colorReset))
	}

	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// originLabel renders a terminal Origin for display, empty for
// Unresolved (nothing worth printing).
func originLabel(o graph.Origin) string {
	switch o.Kind {
	case graph.OriginEnvVar:
		return o.EnvVarName
	case graph.OriginEnvObject:
		return o.CanonicalName + " (object)"
	default:
		return ""
	}
}

// HasErrors reports whether any report recorded a scan-time failure.
func HasErrors(reports []DocumentReport) bool {
	for _, r := range reports {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// FormatError formats an error message for stderr, carried over from
// the teacher's FormatError.
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}

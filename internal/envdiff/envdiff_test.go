package envdiff

import (
	"testing"

	"github.com/jenian/envbind/internal/wsconfig"
)

func TestCompareFindsMissingKeys(t *testing.T) {
	usages := []Usage{
		{VarName: "STRIPE_KEY", File: "payments.js", Line: 10},
		{VarName: "DATABASE_URL", File: "db.go", Line: 20},
		{VarName: "API_KEY", File: "api.js", Line: 30},
	}
	loaded := map[string]string{"API_KEY": "test123"}

	result := Compare(usages, loaded, wsconfig.Default())

	if len(result.Missing) != 2 {
		t.Fatalf("expected 2 missing keys, got %d: %+v", len(result.Missing), result.Missing)
	}
	if _, ok := result.Missing["STRIPE_KEY"]; !ok {
		t.Error("STRIPE_KEY should be missing")
	}
	if _, ok := result.Missing["DATABASE_URL"]; !ok {
		t.Error("DATABASE_URL should be missing")
	}
	if _, ok := result.Missing["API_KEY"]; ok {
		t.Error("API_KEY should not be missing")
	}
}

func TestCompareFindsUnusedKeys(t *testing.T) {
	usages := []Usage{{VarName: "API_KEY", File: "api.js", Line: 1}}
	loaded := map[string]string{"API_KEY": "x", "UNUSED_VAR": "y"}

	result := Compare(usages, loaded, wsconfig.Default())

	if len(result.Unused) != 1 || result.Unused[0] != "UNUSED_VAR" {
		t.Fatalf("got %+v, want [UNUSED_VAR]", result.Unused)
	}
}

func TestCompareRespectsIgnoreConfig(t *testing.T) {
	usages := []Usage{{VarName: "CUSTOM_KEY", File: "a.go", Line: 1}}
	cfg := wsconfig.Default()
	cfg.Ignores.Missing = []string{"CUSTOM_KEY"}

	result := Compare(usages, map[string]string{}, cfg)

	if len(result.Missing) != 0 {
		t.Fatalf("expected CUSTOM_KEY to be ignored, got %+v", result.Missing)
	}
	if result.IgnoredMissing != 1 {
		t.Fatalf("IgnoredMissing = %d, want 1", result.IgnoredMissing)
	}
}

func TestCompareCountsIgnoredFolderVarsWithoutReporting(t *testing.T) {
	usages := []Usage{
		{VarName: "CONFIG_ONLY_VAR", File: "deployments/k8s.yaml", Line: 1, InIgnoredPath: true},
	}

	result := Compare(usages, map[string]string{}, wsconfig.Default())

	if len(result.Missing) != 0 {
		t.Fatalf("expected no missing report for ignored-path-only var, got %+v", result.Missing)
	}
	if result.IgnoredFromFolders != 1 {
		t.Fatalf("IgnoredFromFolders = %d, want 1", result.IgnoredFromFolders)
	}
}

package pipeline

import (
	"path/filepath"
	"strings"
)

// ResolveTargets returns the general catalog files a pricing file feeds.
//
// An explicit generalPath always wins. Otherwise the pricing file's base name
// (without extension) is looked up in aliases, and each alias becomes
// generalDir/<alias>.json; with no alias the pricing file name is reused
// under generalDir. The filesystem is never touched.
func ResolveTargets(pricingPath, generalPath, generalDir string, aliases map[string][]string) []string {
	if generalPath != "" {
		return []string{generalPath}
	}

	name := filepath.Base(pricingPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = name
	}

	if names := aliases[stem]; len(names) > 0 {
		targets := make([]string, 0, len(names))
		for _, n := range names {
			targets = append(targets, filepath.Join(generalDir, n+".json"))
		}
		return targets
	}

	return []string{filepath.Join(generalDir, name)}
}

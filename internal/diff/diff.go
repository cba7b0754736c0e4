package diff

import (
	"fmt"
	"sort"

	"github.com/everstacklabs/pricesync/internal/catalog"
)

// Compute finds the pricing models absent from general and returns a change
// set whose catalog has a stub appended for each of them.
//
// Reserved keys are ignored on both sides: a pricing entry called "default"
// is never reported, and a general "default" entry never satisfies a model.
// The general document passed in is never modified.
func Compute(target string, pricingKeys []string, general *catalog.Document) (*ChangeSet, error) {
	cs := &ChangeSet{Target: target, Catalog: general}

	configured := make(map[string]bool, general.Len())
	for _, k := range general.ModelKeys() {
		configured[k] = true
	}

	seen := make(map[string]bool, len(pricingKeys))
	for _, k := range pricingKeys {
		if seen[k] || catalog.IsReserved(k) {
			continue
		}
		seen[k] = true
		if configured[k] {
			cs.Present++
			continue
		}
		cs.Missing = append(cs.Missing, k)
	}

	if len(cs.Missing) == 0 {
		return cs, nil
	}

	sort.Strings(cs.Missing)

	updated := general.Clone()
	for _, k := range cs.Missing {
		if err := updated.SetValue(k, catalog.NewStub()); err != nil {
			return nil, fmt.Errorf("adding stub for %s: %w", k, err)
		}
	}
	cs.Catalog = updated

	return cs, nil
}

package diff

import "github.com/everstacklabs/pricesync/internal/catalog"

// ChangeSet is the result of reconciling one general catalog against a pricing catalog.
type ChangeSet struct {
	Target string

	// Missing lists the model keys added to Catalog, in ascending order.
	Missing []string

	// Catalog is the reconciled document. When Missing is empty it is the
	// caller's original document; otherwise it is an independent copy.
	Catalog *catalog.Document

	// Present counts pricing models the general catalog already configured.
	Present int
}

// HasChanges reports whether the general catalog needs to be rewritten.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.Missing) > 0
}

package linear

import (
	"github.com/prism-stats/prism/pkg/family"
	"github.com/prism-stats/prism/pkg/registry"
)

func init() {
	// Register linear model adapters in the global registry
	registry.RegisterGlance(TypeTag, glance)
	registry.RegisterTidy(TypeTag, tidy)
	registry.RegisterAugment(TypeTag, augment)

	family.RegisterLoader("linear", Load)
}

package kmeans

import (
	"github.com/prism-stats/prism/pkg/family"
	"github.com/prism-stats/prism/pkg/registry"
)

func init() {
	// Register k-means adapters in the global registry
	registry.RegisterGlance(TypeTag, glance)
	registry.RegisterTidy(TypeTag, tidy)
	registry.RegisterAugment(TypeTag, augment)

	family.RegisterLoader("kmeans", Load)
}

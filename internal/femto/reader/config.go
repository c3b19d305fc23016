package reader

import (
	"fmt"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/femto/manager"
)

// FromConfig opens the source described by c.
func FromConfig(c *config.ReaderConfig) (manager.Reader, error) {
	switch c.GetType() {
	case "synthetic":
		sc := DefaultSyntheticConfig()
		sc.Events = c.GetEvents()
		sc.Seed = c.GetSeed()
		sc.MultMin, sc.MultMax = c.GetMultiplicity()
		sc.VertexZMin, sc.VertexZMax = c.GetVertexZ()
		return NewSynthetic(sc)
	case "jsonl":
		if c.GetPath() == "" {
			return nil, fmt.Errorf("jsonl reader needs a path")
		}
		return OpenJSONL(c.GetPath())
	case "lcio":
		if c.GetPath() == "" {
			return nil, fmt.Errorf("lcio reader needs a path")
		}
		return OpenLCIO(c.GetPath())
	}
	return nil, fmt.Errorf("unknown reader type %q", c.GetType())
}

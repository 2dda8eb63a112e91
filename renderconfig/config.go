// Package renderconfig loads YAML render overrides on top of a scene's own
// Sampler directive, the way g3n-engine's gui builder unmarshals widget
// descriptors (gui/builder.go) with the same library.
package renderconfig

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config overrides fields of a parsed scene and the render invocation
// itself. Zero values mean "use the scene/default"; SamplesPerPixel <= 0
// and Workers <= 0 both fall back this way.
type Config struct {
	SamplesPerPixel int    `yaml:"samples_per_pixel"`
	Workers         int    `yaml:"workers"`
	Volumetric      bool   `yaml:"volumetric"`
	FrameSeed       uint64 `yaml:"frame_seed"`
	OutputPath      string `yaml:"output_path"`
}

// Load reads and parses a YAML config file. A missing file is not an
// error: it returns the zero Config, meaning every setting falls back to
// the scene's own directives and the integrator's defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

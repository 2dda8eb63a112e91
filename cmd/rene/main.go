// Command rene parses a scene description file, lowers and path-traces it,
// and writes the resulting image as a PNG.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hatoo/rene-sub000/accel/cpu"
	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/imgoutput"
	"github.com/hatoo/rene-sub000/integrate"
	"github.com/hatoo/rene-sub000/meshio"
	"github.com/hatoo/rene-sub000/renderconfig"
	"github.com/hatoo/rene-sub000/rlog"
	"github.com/hatoo/rene-sub000/scenelower"
)

const meshCacheCapacity = 64

func main() {
	scenePath := flag.String("scene", "", "path to a scene description file")
	configPath := flag.String("config", "", "optional YAML render override file")
	outPath := flag.String("out", "", "output PNG path (overrides config/film filename)")
	verbose := flag.Bool("v", false, "enable info-level logging")
	flag.Parse()

	if *verbose {
		rlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	scene := *scenePath
	if scene == "" && flag.NArg() > 0 {
		scene = flag.Arg(0)
	}
	if err := run(scene, *configPath, *outPath); err != nil {
		fmt.Fprintln(os.Stderr, "rene:", err)
		os.Exit(1)
	}
}

func run(scenePath, configPath, outPath string) error {
	if scenePath == "" {
		return fmt.Errorf("a scene file is required (positional argument or -scene)")
	}

	cfg, err := renderconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	src, err := os.ReadFile(scenePath)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}

	expanded, err := dsl.ExpandIncludes(string(src), filepath.Dir(scenePath))
	if err != nil {
		return fmt.Errorf("expanding includes: %w", err)
	}

	parsed, err := dsl.Parse(expanded)
	if err != nil {
		return fmt.Errorf("parsing scene: %w", err)
	}

	meshLoader, err := meshio.NewMeshLoader(meshCacheCapacity)
	if err != nil {
		return fmt.Errorf("creating mesh loader: %w", err)
	}
	imageTable, err := meshio.NewImageTable(meshCacheCapacity)
	if err != nil {
		return fmt.Errorf("creating image table: %w", err)
	}

	lowered, err := scenelower.NewLowerer(meshLoader, imageTable).Lower(parsed)
	if err != nil {
		return fmt.Errorf("lowering scene: %w", err)
	}

	device := cpu.NewBackend()
	fb, err := integrate.Render(device, lowered, integrate.Options{
		FrameSeed:       cfg.FrameSeed,
		SamplesOverride: cfg.SamplesPerPixel,
		Volumetric:      cfg.Volumetric,
		Workers:         cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	dest := outPath
	if dest == "" {
		dest = cfg.OutputPath
	}
	if dest == "" {
		dest = lowered.Film.Filename
	}
	if dest == "" {
		dest = "render.png"
	}

	if err := imgoutput.WritePNG(dest, fb); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	rlog.Logger().Info("wrote image", "path", dest)
	return nil
}

package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"shaderxc/config"
)

// cfgFlags holds the Config fields every subcommand that runs the
// pipeline exposes as flags.
type cfgFlags struct {
	entry    string
	stage    string
	format   string
	features string
}

func (c *cfgFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.entry, "entry", "main", "entry point function name")
	f.StringVar(&c.stage, "stage", "pixel", "shader stage: vertex or pixel")
	f.StringVar(&c.format, "format", "hlsl-sm4", "target dialect: hlsl-sm3, hlsl-sm4, glsl-140, glsl-es-100")
	f.StringVar(&c.features, "features", "", "comma-separated feature macro names predefined as 1")
}

func (c *cfgFlags) build() config.Config {
	cfg := config.Config{EntryPoint: c.entry}

	if c.stage == "vertex" {
		cfg.Stage = config.StageVertex
	} else {
		cfg.Stage = config.StagePixel
	}

	switch c.format {
	case "hlsl-sm3":
		cfg.Format = config.FormatHLSL_SM3
	case "glsl-140":
		cfg.Format = config.FormatGLSL140
	case "glsl-es-100":
		cfg.Format = config.FormatGLSL_ES100
	default:
		cfg.Format = config.FormatHLSL_SM4
	}

	if c.features != "" {
		cfg.FeatureMacros = strings.Split(c.features, ",")
	}
	return cfg
}

// dirIncluder resolves #include targets relative to the directory the
// top-level source file lives in. The core pipeline has no file I/O of
// its own; this is the concrete collaborator that supplies it.
type dirIncluder struct {
	dir string
}

func (d dirIncluder) Load(path string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(d.dir, path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

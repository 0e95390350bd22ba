// Package config holds the compile-time configuration the driver
// supplies to every pass: entry-point name and stage select
// grammar-level behavior like entry-point detection and the legality
// of `discard`.
package config

// Stage selects which shader stage is being compiled. The parser uses
// it to reject `discard` outside the pixel stage; the entry point's
// inputs and outputs are not checked against the stage.
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	if s == StagePixel {
		return "pixel"
	}
	return "vertex"
}

// OutputFormat selects the generator dialect. Textual code generation
// itself is out of scope here; OutputFormat is still part of Config
// so a generator can read it. No front-end pass reads it:
// `register`/`packoffset` are parsed the same way for every dialect.
type OutputFormat int

const (
	FormatHLSL_SM3 OutputFormat = iota
	FormatHLSL_SM4
	FormatGLSL140
	FormatGLSL_ES100
)

func (f OutputFormat) String() string {
	switch f {
	case FormatHLSL_SM3:
		return "hlsl-sm3"
	case FormatHLSL_SM4:
		return "hlsl-sm4"
	case FormatGLSL140:
		return "glsl-140"
	case FormatGLSL_ES100:
		return "glsl-es-100"
	default:
		return "unknown"
	}
}

// OutputFlag is a bitmask of generator options; currently-unspecified
// bits are reserved and none are defined yet.
type OutputFlag uint32

// Config is the full set of driver-supplied configuration: entry-point
// name, stage, output format, output flags, and a list of feature
// macro names to predefine as 1 before any source is processed.
type Config struct {
	EntryPoint    string
	Stage         Stage
	Format        OutputFormat
	Flags         OutputFlag
	FeatureMacros []string
}

package savefile

import (
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/jsondoc"
)

// Load decodes, validates and resolves a persisted document.
// The returned error is a *jsondoc.DecodeError or a *ValidationError.
func Load(text string) (*core.Grid, error) {
	return LoadWithOptions(text, jsondoc.DefaultOptions())
}

// LoadWithOptions is Load with explicit decoder options.
func LoadWithOptions(text string, opts jsondoc.Options) (*core.Grid, error) {
	v, err := jsondoc.DecodeWithOptions(text, opts)
	if err != nil {
		return nil, err
	}
	cfg, err := Validate(v)
	if err != nil {
		return nil, err
	}
	return Resolve(cfg)
}

// Package settings loads editor configuration from a TOML file.
// Everything has a working default; a missing file is not an error.
package settings

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
)

// Settings holds the tunable editor knobs.
type Settings struct {
	// VertexRadius is the hit radius of vertices, in canvas units.
	VertexRadius float64 `toml:"vertex_radius"`
	// ArrowRadius is the proximity radius of arrows.
	ArrowRadius float64 `toml:"arrow_radius"`
	// VertexMargin widens the vertex genericity check.
	VertexMargin float64 `toml:"vertex_margin"`
	// Locked starts the editor in lock mode, preserving the crossing
	// pattern through drags.
	Locked bool `toml:"locked"`
	// NudgeDebounceMS collapses key nudges arriving within this many
	// milliseconds into a single move.
	NudgeDebounceMS int `toml:"nudge_debounce_ms"`
	// Palette overrides the component color ring.
	Palette []string `toml:"palette"`
}

// Default returns the stock settings.
func Default() Settings {
	tol := diagram.DefaultTolerances()
	return Settings{
		VertexRadius:    tol.VertexRadius,
		ArrowRadius:     tol.ArrowRadius,
		VertexMargin:    tol.VertexMargin,
		NudgeDebounceMS: 100,
	}
}

// Load reads settings from a TOML file, filling unset fields with
// defaults. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if err := s.validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.VertexRadius <= 0 || s.ArrowRadius <= 0 || s.VertexMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "radii must be positive")
	}
	if s.NudgeDebounceMS < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nudge_debounce_ms must not be negative")
	}
	return nil
}

// Tolerances converts the settings into diagram tolerances.
func (s Settings) Tolerances() diagram.Tolerances {
	return diagram.Tolerances{
		VertexRadius: s.VertexRadius,
		ArrowRadius:  s.ArrowRadius,
		VertexMargin: s.VertexMargin,
	}
}

// NudgeDebounce returns the debounce window as a duration.
func (s Settings) NudgeDebounce() time.Duration {
	return time.Duration(s.NudgeDebounceMS) * time.Millisecond
}

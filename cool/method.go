package cool

import (
	"errors"
	"fmt"
	"math"
	"strings"

	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Sentinel errors.
var (
	ErrUnknownMethod = errors.New("cool: unknown method")
	ErrInvalidMethod = errors.New("cool: invalid method")
	ErrInvalidInput  = errors.New("cool: invalid tally")
)

// Reference selects the population/sample pairing a vessel is tested against.
type Reference int

const (
	// ReferenceSelection tests the selection against the active set.
	ReferenceSelection Reference = iota
	// ReferenceExperiment tests the active set against the experiment set.
	ReferenceExperiment
)

func (r Reference) String() string {
	switch r {
	case ReferenceSelection:
		return "selection"
	case ReferenceExperiment:
		return "experiment"
	default:
		return fmt.Sprintf("reference(%d)", int(r))
	}
}

// MarshalYAML renders the reference by name.
func (r Reference) MarshalYAML() (any, error) { return r.String(), nil }

// UnmarshalYAML accepts the names produced by MarshalYAML.
func (r *Reference) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "selection":
		*r = ReferenceSelection
	case "experiment":
		*r = ReferenceExperiment
	default:
		return sgerr.Wrap(ErrInvalidMethod, sgerr.CodeCoolInvalidMethod, "unknown reference", sgerr.Field("reference", s))
	}
	return nil
}

// Direction chooses which tail of the distribution is reported.
type Direction int

const (
	// DirectionOver reports P(X ≥ k).
	DirectionOver Direction = iota
	// DirectionUnder reports P(X ≤ k).
	DirectionUnder
)

func (d Direction) String() string {
	switch d {
	case DirectionOver:
		return "over"
	case DirectionUnder:
		return "under"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalYAML renders the direction by name.
func (d Direction) MarshalYAML() (any, error) { return d.String(), nil }

// UnmarshalYAML accepts the names produced by MarshalYAML.
func (d *Direction) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "over":
		*d = DirectionOver
	case "under":
		*d = DirectionUnder
	default:
		return sgerr.Wrap(ErrInvalidMethod, sgerr.CodeCoolInvalidMethod, "unknown direction", sgerr.Field("direction", s))
	}
	return nil
}

// Method is a named scoring configuration.
type Method struct {
	Name      string    `yaml:"name"`
	Reference Reference `yaml:"reference"`
	Direction Direction `yaml:"direction"`
	MinSize   int       `yaml:"min_size"`  // minimum vessel active count
	MinScore  float64   `yaml:"min_score"` // minimum −log10(p); −Inf keeps everything
	Limit     int       `yaml:"limit"`     // ≤ 0 means unlimited
}

// Key identifies the method for caching. Two methods with equal keys
// produce equal rankings from equal inputs.
func (m Method) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%g|%d",
		strings.ToLower(m.Name), m.Reference, m.Direction, m.MinSize, m.MinScore, m.Limit)
}

// Validate reports whether the method can be evaluated.
func (m Method) Validate() error {
	var reason string
	switch {
	case m.Reference != ReferenceSelection && m.Reference != ReferenceExperiment:
		reason = "unknown reference"
	case m.Direction != DirectionOver && m.Direction != DirectionUnder:
		reason = "unknown direction"
	case m.MinSize < 0:
		reason = "negative min size"
	case math.IsNaN(m.MinScore):
		reason = "min score is NaN"
	default:
		return nil
	}
	return sgerr.Wrap(ErrInvalidMethod, sgerr.CodeCoolInvalidMethod, reason, sgerr.FieldMethod(m.Name))
}

// Preset names.
const (
	PresetSelected = "selected"
	PresetNarrowed = "narrowed"
	PresetAll      = "all"
	PresetDepleted = "depleted"
)

// Presets returns the built-in methods in a stable order.
func Presets() []Method {
	return []Method{
		{Name: PresetSelected, Reference: ReferenceSelection, Direction: DirectionOver, MinSize: 3, MinScore: 10},
		{Name: PresetNarrowed, Reference: ReferenceExperiment, Direction: DirectionOver, MinSize: 3, MinScore: 5},
		{Name: PresetAll, Reference: ReferenceExperiment, Direction: DirectionOver, MinSize: 3, MinScore: math.Inf(-1)},
		{Name: PresetDepleted, Reference: ReferenceSelection, Direction: DirectionUnder, MinSize: 3, MinScore: 5},
	}
}

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Method, error) {
	for _, m := range Presets() {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Method{}, sgerr.Wrap(ErrUnknownMethod, sgerr.CodeCoolUnknownMethod, "lookup preset", sgerr.FieldMethod(name))
}

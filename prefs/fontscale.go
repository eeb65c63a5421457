package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupportedFontScale is returned for any value outside the fixed set of
// font scales.
var ErrUnsupportedFontScale = errors.New("unsupported font scale")

// FontScale is one of five fixed text size steps. The zero value is invalid.
type FontScale int

const (
	FontScaleXS FontScale = iota + 1
	FontScaleS
	FontScaleM
	FontScaleL
	FontScaleXL
)

// DefaultFontScale is used when nothing has been persisted.
const DefaultFontScale = FontScaleM

var fontScales = []struct {
	scale      FontScale
	name       string
	label      string
	multiplier float64
}{
	{FontScaleXS, "xs", "Extra small", 0.8},
	{FontScaleS, "s", "Small", 0.9},
	{FontScaleM, "m", "Medium", 1.0},
	{FontScaleL, "l", "Large", 1.1},
	{FontScaleXL, "xl", "Extra large", 1.2},
}

// FontScales lists every supported scale from smallest to largest.
func FontScales() []FontScale {
	out := make([]FontScale, 0, len(fontScales))
	for _, fs := range fontScales {
		out = append(out, fs.scale)
	}
	return out
}

func (f FontScale) Valid() bool {
	return f >= FontScaleXS && f <= FontScaleXL
}

// Multiplier returns the size factor relative to the medium scale.
func (f FontScale) Multiplier() float64 {
	if !f.Valid() {
		return 1.0
	}
	return fontScales[f-1].multiplier
}

// String returns the short name (xs, s, m, l, xl).
func (f FontScale) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FontScale(%d)", int(f))
	}
	return fontScales[f-1].name
}

// Label is the human readable name shown in pickers.
func (f FontScale) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return fontScales[f-1].label
}

// FontScaleFromMultiplier maps 0.8, 0.9, 1.0, 1.1 or 1.2 to its scale.
func FontScaleFromMultiplier(m float64) (FontScale, error) {
	for _, fs := range fontScales {
		if math.Abs(fs.multiplier-m) < 1e-9 {
			return fs.scale, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedFontScale, m)
}

// ParseFontScale accepts a short name ("xl"), a label ("large",
// "extra-small") or a multiplier ("1.1").
func ParseFontScale(s string) (FontScale, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, fs := range fontScales {
		if v == fs.name || v == strings.ToLower(fs.label) || v == strings.ReplaceAll(strings.ToLower(fs.label), " ", "-") {
			return fs.scale, nil
		}
	}
	if m, err := strconv.ParseFloat(v, 64); err == nil {
		return FontScaleFromMultiplier(m)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFontScale, s)
}

func (f FontScale) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFontScale, int(f))
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts the short name or the numeric multiplier.
func (f *FontScale) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		fs, err := ParseFontScale(name)
		if err != nil {
			return err
		}
		*f = fs
		return nil
	}
	var m float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFontScale, string(data))
	}
	fs, err := FontScaleFromMultiplier(m)
	if err != nil {
		return err
	}
	*f = fs
	return nil
}

package dcf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Presets are named forms.
type Presets map[string]Input

// Example is the worked example shipped with the tool (Alphabet, figures in millions).
var Example = Input{
	Company:        "GOOGL",
	GrowthFCF1to5:  "15",
	GrowthFCF6to10: "15",
	TerminalGrowth: "4",
	RequiredReturn: "10",
	Revenue:        "371399",
	GrowthRev1to5:  "12",
	GrowthRev6to10: "12",
	FCFMargin:      "27.45",
	FCFYear0:       "74881",
	Cash:           "95148",
	Debt:           "41668",
	Shares:         "12198",
	StartYear:      "2024",
	MarketPrice:    "235",
}

// BuiltinPresets returns the presets available without any file.
func BuiltinPresets() Presets {
	return Presets{"googl": Example}
}

// LoadPresets reads a YAML document mapping preset names to forms.
// Names are case insensitive.
func LoadPresets(r io.Reader) (Presets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	var raw map[string]Input
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("format error in presets: %w", err)
	}
	p := make(Presets, len(raw))
	for name, in := range raw {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := p[key]; exists {
			return nil, fmt.Errorf("format error in presets: %q is defined twice", key)
		}
		p[key] = in
	}
	return p, nil
}

// With returns a copy of p extended with q, q taking precedence.
func (p Presets) With(q Presets) Presets {
	res := make(Presets, len(p)+len(q))
	for k, v := range p {
		res[k] = v
	}
	for k, v := range q {
		res[k] = v
	}
	return res
}

// Get returns a preset by name.
func (p Presets) Get(name string) (Input, error) {
	in, ok := p[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Input{}, fmt.Errorf("preset %q not found, available: %s", name, strings.Join(p.Names(), ", "))
	}
	return in, nil
}

// Names returns the preset names in alphabetical order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

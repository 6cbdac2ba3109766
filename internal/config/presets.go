package config

import (
	"fmt"
	"sort"
)

// Presets are named starting conditions per model, selectable from the
// command line without writing a config file.
var presets = map[string]map[string]*ModelConfig{
	"pendulum": {
		"default": {
			Name:      "pendulum",
			InitState: []float64{2.2, 0},
		},
		"inverted": {
			Name:      "pendulum",
			InitState: []float64{3.1, 0},
		},
		"spinning": {
			Name:      "pendulum",
			InitState: []float64{0, 8.0},
		},
		"damped": {
			Name:      "pendulum",
			Params:    map[string]float64{"damping": 0.8},
			InitState: []float64{2.2, 0},
		},
	},
	"double_pendulum": {
		"default": {
			Name:      "double_pendulum",
			InitState: []float64{1.8, 2.2, 0, 0},
		},
		"chaotic": {
			Name:      "double_pendulum",
			InitState: []float64{3.14, 3.13, 0, 0},
		},
		"gentle": {
			Name:      "double_pendulum",
			InitState: []float64{0.3, 0.3, 0, 0},
		},
	},
	"spring": {
		"default": {
			Name:      "spring",
			InitState: []float64{1.3, -0.5, 0, 0},
		},
		"stiff": {
			Name:      "spring",
			Params:    map[string]float64{"stiffness": 200.0},
			InitState: []float64{1.3, -0.5, 0, 0},
		},
		"orbit": {
			Name:      "spring",
			InitState: []float64{1.5, 0, 0, 3.0},
		},
	},
	"coupled": {
		"default": {
			Name:      "coupled",
			InitState: []float64{1.0, 0, 0, 0},
		},
		"antiphase": {
			Name:      "coupled",
			InitState: []float64{0.8, -0.8, 0, 0},
		},
		"beat": {
			Name:      "coupled",
			Params:    map[string]float64{"coupling": 2.0},
			InitState: []float64{1.0, 0.95, 0, 0},
		},
	},
}

func GetPreset(model, name string) (*ModelConfig, error) {
	group, ok := presets[model]
	if !ok {
		return nil, fmt.Errorf("no presets for model %q", model)
	}
	p, ok := group[name]
	if !ok {
		return nil, fmt.Errorf("model %q has no preset %q", model, name)
	}

	out := &ModelConfig{
		Name:      p.Name,
		InitState: append([]float64(nil), p.InitState...),
	}
	if p.Params != nil {
		out.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			out.Params[k] = v
		}
	}
	return out, nil
}

func ListPresets(model string) []string {
	group, ok := presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

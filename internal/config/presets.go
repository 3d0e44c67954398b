package config

import "sort"

var Presets = map[string]map[string]*MediumConfig{
	"luneberg": {
		"axial": {
			Kind: "luneberg", Base: 1.5, C1: 1.0, C2: 0.0,
		},
		"ring": {
			Kind: "luneberg", Base: 1.5, C1: 1.0, C2: 5.0,
		},
		"steep": {
			Kind: "luneberg", Base: 1.6, C1: 4.0, C2: 2.0,
		},
		"shallow": {
			Kind: "luneberg", Base: 1.5, C1: 0.25, C2: 0.0,
		},
		"fiber": {
			Kind: "luneberg", Base: 1.46, C1: 0.05, C2: 0.0,
		},
	},
	"uniform": {
		"glass": {
			Kind: "uniform", Base: 1.5,
		},
		"water": {
			Kind: "uniform", Base: 1.333,
		},
	},
}

func GetPreset(kind, preset string) *MediumConfig {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

var Presets = map[string]map[string]*Config{
	"step-rate": {
		"gyro": {
			Scenario: "step-rate", Dt: 0.01, Ticks: 1000, Threshold: 360,
		},
		"slow": {
			Scenario: "step-rate", Dt: 0.1, Ticks: 200, Threshold: 360,
		},
	},
	"oscillate": {
		"gyro": {
			Scenario: "oscillate", Dt: 0.01, Ticks: 2000, Threshold: 30,
		},
		"long": {
			Scenario: "oscillate", Dt: 0.01, Ticks: 20000, Threshold: 30,
		},
	},
	"drift-bias": {
		"hour": {
			Scenario: "drift-bias", Dt: 0.01, Ticks: 360000, Threshold: 1080, Seed: 1,
		},
		"minute": {
			Scenario: "drift-bias", Dt: 0.01, Ticks: 6000, Threshold: 18, Seed: 1,
		},
	},
	"nan-fault": {
		"pass-through": {
			Scenario: "nan-fault", Dt: 0.01, Ticks: 500, Threshold: 360,
		},
		"stop": {
			Scenario: "nan-fault", Dt: 0.01, Ticks: 500, Threshold: 360, StopOnNonFinite: true,
		},
	},
}

// GetPreset returns a copy so callers may override fields freely.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.Input.Column = DefaultColumn
	c.Axes = []string{"x"}
	return &c
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}

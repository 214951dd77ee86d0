package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConnParams is the optional connection-parameters sidecar: a small YAML
// file living next to the rule file that tunes server-wide defaults
// without touching the rule grammar itself. This generalizes sinksmtp's
// own -conncfg idea (doc.go, "CONNECTION PARAMETERS") to the handful of
// values this server needs.
type ConnParams struct {
	// DefaultProfile overrides the profile the server starts in. It must
	// name a profile that is also reachable, or startup fails the same
	// "profile not referenced" validation as any other profile reference.
	DefaultProfile string `yaml:"default_profile"`
	// JitterMs adds a bounded random extra sleep, in milliseconds, on top
	// of any Delay rule's fixed delay. Zero (the default) leaves existing
	// configs' timing untouched.
	JitterMs int `yaml:"jitter_ms"`
}

// LoadConnParams reads the sidecar next to configPath. A missing sidecar
// is not an error; it yields a zero-value ConnParams (no overrides),
// mirroring sinksmtp's own missing-conncfg fallback.
func LoadConnParams(configPath string) (*ConnParams, error) {
	path := sidecarPath(configPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConnParams{}, nil
		}
		return nil, err
	}
	var p ConnParams
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func sidecarPath(configPath string) string {
	base := configPath
	if idx := strings.LastIndexByte(base, '.'); idx != -1 {
		base = base[:idx]
	}
	return base + ".params.yaml"
}

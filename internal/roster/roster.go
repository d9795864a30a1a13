package roster

import (
	"context"
	"fmt"

	"gift-exchange/internal/model"
)

// Loader defines the interface for loading the participant roster.
type Loader interface {
	// Load reads a YAML or JSON roster. Paths ending in .gz are decompressed.
	Load(ctx context.Context, path string) (*model.Roster, error)
}

// Policy decides how exclusions that are only listed on one side are treated.
type Policy string

const (
	// PolicyMirror adds the missing reverse exclusion.
	PolicyMirror Policy = "mirror"
	// PolicyStrict rejects rosters with one-sided exclusions.
	PolicyStrict Policy = "strict"
	// PolicyDirectional keeps exclusions exactly as written.
	PolicyDirectional Policy = "directional"
)

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch p := Policy(value); p {
	case PolicyMirror, PolicyStrict, PolicyDirectional:
		return p, nil
	default:
		return "", fmt.Errorf("invalid exclusion policy: %s (must be mirror, strict, or directional)", value)
	}
}

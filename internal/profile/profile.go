// Package profile stores a named asset description as a TOML file so the same
// building can be evaluated repeatedly without retyping its parameters.
package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iwvelando/maintenance-budget/internal/budget"
)

// Profile is the on-disk form of an asset.
type Profile struct {
	Name             string   `toml:"name"`
	GrossArea        float64  `toml:"grossArea"`
	Capacity         int      `toml:"capacity"`
	ConstructionYear int      `toml:"constructionYear"`
	AnnualRevenue    float64  `toml:"annualRevenue"`
	Equipment        []string `toml:"equipment"`
}

// FromInput captures an asset input under the given name.
func FromInput(name string, in budget.AssetInput) Profile {
	return Profile{
		Name:             name,
		GrossArea:        in.GrossArea,
		Capacity:         in.Capacity,
		ConstructionYear: in.ConstructionYear,
		AnnualRevenue:    in.AnnualRevenue,
		Equipment:        in.Equipment.Names(),
	}
}

// AssetInput converts the profile back into calculator input.
func (p Profile) AssetInput() (budget.AssetInput, error) {
	equipment, err := budget.ParseEquipment(p.Equipment)
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return budget.AssetInput{
		GrossArea:        p.GrossArea,
		Capacity:         p.Capacity,
		ConstructionYear: p.ConstructionYear,
		AnnualRevenue:    p.AnnualRevenue,
		Equipment:        equipment,
	}, nil
}

// Load reads a profile from path. Keys the profile type does not know are
// rejected so typos are not silently ignored.
func Load(path string) (Profile, error) {
	var p Profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Profile{}, fmt.Errorf("profile %s: unknown keys %v", path, undecoded)
	}
	return p, nil
}

// Save writes p to path, creating parent directories as needed.
func Save(path string, p Profile) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}
	return nil
}

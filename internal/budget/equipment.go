package budget

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Flag identifies one piece of complex building equipment.
type Flag uint8

// The fixed equipment vocabulary.
const (
	Elevator Flag = 1 << iota
	HVAC
	MechanicalVentilation
	ActiveFireSuppression
	CCTVAlarm
)

// EquipmentRate holds the incremental rates a single flag adds on top of the
// base rates. Contributions are additive and independent of other flags.
type EquipmentRate struct {
	Flag          Flag    `json:"-"`
	Name          string  `json:"name"`
	Label         string  `json:"label"`
	Ordinary      float64 `json:"ordinaryRate"`
	Extraordinary float64 `json:"extraordinaryRate"`
}

var catalog = [...]EquipmentRate{
	{Flag: Elevator, Name: "elevator", Label: "Elevator", Ordinary: 0.0025, Extraordinary: 0.0015},
	{Flag: HVAC, Name: "hvac", Label: "HVAC", Ordinary: 0.0035, Extraordinary: 0.0025},
	{Flag: MechanicalVentilation, Name: "mechanicalVentilation", Label: "Mechanical ventilation", Ordinary: 0.0015, Extraordinary: 0.0010},
	{Flag: ActiveFireSuppression, Name: "activeFireSuppression", Label: "Active fire suppression", Ordinary: 0.0010, Extraordinary: 0.0005},
	{Flag: CCTVAlarm, Name: "cctvAlarm", Label: "CCTV / alarm", Ordinary: 0.0005, Extraordinary: 0.0010},
}

// Catalog returns the equipment vocabulary in its canonical order.
func Catalog() []EquipmentRate {
	out := make([]EquipmentRate, len(catalog))
	copy(out, catalog[:])
	return out
}

// Name returns the canonical name of the flag, or "" for an unknown flag.
func (f Flag) Name() string {
	for _, rate := range catalog {
		if rate.Flag == f {
			return rate.Name
		}
	}
	return ""
}

// Equipment is an immutable set of equipment flags.
type Equipment uint8

// NewEquipment returns the set holding the given flags.
func NewEquipment(flags ...Flag) Equipment {
	var e Equipment
	for _, f := range flags {
		e = e.With(f)
	}
	return e
}

// AllEquipment returns the set with every known flag.
func AllEquipment() Equipment {
	var e Equipment
	for _, rate := range catalog {
		e = e.With(rate.Flag)
	}
	return e
}

// Has reports whether f is set.
func (e Equipment) Has(f Flag) bool {
	return uint8(e)&uint8(f) != 0
}

// With returns a copy of e with f set.
func (e Equipment) With(f Flag) Equipment {
	return Equipment(uint8(e) | uint8(f))
}

// Without returns a copy of e with f cleared.
func (e Equipment) Without(f Flag) Equipment {
	return Equipment(uint8(e) &^ uint8(f))
}

// Toggle returns a copy of e with f flipped.
func (e Equipment) Toggle(f Flag) Equipment {
	if e.Has(f) {
		return e.Without(f)
	}
	return e.With(f)
}

// Names returns the canonical names of the set flags in catalog order.
func (e Equipment) Names() []string {
	names := make([]string, 0, len(catalog))
	for _, rate := range catalog {
		if e.Has(rate.Flag) {
			names = append(names, rate.Name)
		}
	}
	return names
}

// Rates returns the summed incremental ordinary and extraordinary rates of
// the set flags. An empty set contributes zero to both.
func (e Equipment) Rates() (ordinary, extraordinary float64) {
	for _, rate := range catalog {
		if e.Has(rate.Flag) {
			ordinary += rate.Ordinary
			extraordinary += rate.Extraordinary
		}
	}
	return ordinary, extraordinary
}

// ParseFlag resolves a flag name. Matching ignores case, spaces, dashes and
// underscores so "fire-suppression" style spellings from flags and forms work.
func ParseFlag(name string) (Flag, error) {
	key := normalizeName(name)
	for _, rate := range catalog {
		if normalizeName(rate.Name) == key {
			return rate.Flag, nil
		}
	}
	if flag, ok := flagAliases[key]; ok {
		return flag, nil
	}
	return 0, fmt.Errorf("unknown equipment %q (expected one of %s)", name, strings.Join(knownNames(), ", "))
}

// ParseEquipment builds a set from flag names. Blank names are ignored.
func ParseEquipment(names []string) (Equipment, error) {
	var e Equipment
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseFlag(name)
		if err != nil {
			return 0, err
		}
		e = e.With(f)
	}
	return e, nil
}

// MarshalJSON encodes the set as a list of canonical names.
func (e Equipment) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Names())
}

// UnmarshalJSON decodes a list of names.
func (e *Equipment) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("equipment must be a list of names: %w", err)
	}
	parsed, err := ParseEquipment(names)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// String implements fmt.Stringer.
func (e Equipment) String() string {
	names := e.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

var flagAliases = map[string]Flag{
	"lift":            Elevator,
	"airconditioning": HVAC,
	"vmc":             MechanicalVentilation,
	"ventilation":     MechanicalVentilation,
	"firesuppression": ActiveFireSuppression,
	"fire":            ActiveFireSuppression,
	"sprinklers":      ActiveFireSuppression,
	"cctv":            CCTVAlarm,
	"alarm":           CCTVAlarm,
}

func normalizeName(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "", "/", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}

func knownNames() []string {
	names := make([]string, 0, len(catalog))
	for _, rate := range catalog {
		names = append(names, rate.Name)
	}
	sort.Strings(names)
	return names
}

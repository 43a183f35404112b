// Package places holds the catalog of known locations and resolves each one
// to a DST-aware time zone.
//
// Rise/set and phase instants are computed in UTC; they are only converted to
// wall-clock time when displayed, using the zone returned by Location. A fixed
// UTC offset is used only as the last resort, since it is wrong for half the
// year wherever daylight saving applies.
package places

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // Embedded zone database for hosts without /usr/share/zoneinfo.

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidZone indicates a place names an IANA zone that cannot be loaded.
	ErrInvalidZone = errors.New("invalid time zone")
	// ErrInvalidCoordinates indicates a latitude or longitude out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrNotFound indicates no place matches the requested name.
	ErrNotFound = errors.New("place not found")
)

// Place is a named observing location.
type Place struct {
	Name      string   `toml:"name"`
	Latitude  float64  `toml:"latitude"`
	Longitude float64  `toml:"longitude"`
	Zone      string   `toml:"zone,omitempty"`
	Offset    float64  `toml:"offset,omitempty"` // hours east of UTC, used when no zone resolves
	Aliases   []string `toml:"aliases,omitempty"`
}

// Validate checks the coordinate ranges.
func (p Place) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("places: %q latitude %v: %w", p.Name, p.Latitude, ErrInvalidCoordinates)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("places: %q longitude %v: %w", p.Name, p.Longitude, ErrInvalidCoordinates)
	}
	return nil
}

// matches reports whether query occurs in the place's name or aliases,
// ignoring case.
func (p Place) matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(q, strings.ToLower(p.Name)) {
		return true
	}
	for _, a := range p.Aliases {
		la := strings.ToLower(a)
		if strings.Contains(la, q) || strings.Contains(q, la) {
			return true
		}
	}
	return false
}

// builtin is the catalog shipped with the binary; the first entry is the default.
var builtin = []Place{
	{Name: "București", Latitude: 44.4268, Longitude: 26.1025, Zone: "Europe/Bucharest", Aliases: []string{"Bucharest", "Bucuresti", "România", "Romania"}},
	{Name: "Cluj-Napoca", Latitude: 46.7712, Longitude: 23.6236, Zone: "Europe/Bucharest", Aliases: []string{"Cluj"}},
	{Name: "Timișoara", Latitude: 45.7489, Longitude: 21.2087, Zone: "Europe/Bucharest", Aliases: []string{"Timisoara"}},
	{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503, Zone: "Asia/Tokyo"},
	{Name: "New York", Latitude: 40.7128, Longitude: -74.0060, Zone: "America/New_York"},
	{Name: "London", Latitude: 51.5074, Longitude: -0.1278, Zone: "Europe/London"},
	{Name: "Paris", Latitude: 48.8566, Longitude: 2.3522, Zone: "Europe/Paris"},
	{Name: "Berlin", Latitude: 52.5200, Longitude: 13.4050, Zone: "Europe/Berlin"},
	{Name: "Los Angeles", Latitude: 34.0522, Longitude: -118.2437, Zone: "America/Los_Angeles"},
}

// Default is the place used when nothing is configured.
func Default() Place { return builtin[0] }

// Catalog is an ordered set of places keyed by lower-cased name.
type Catalog struct {
	places []Place
}

// Builtin returns a catalog holding only the built-in places.
func Builtin() *Catalog {
	c := &Catalog{places: make([]Place, len(builtin))}
	copy(c.places, builtin)
	return c
}

type catalogFile struct {
	Places []Place `toml:"place"`
}

// Load reads a TOML catalog from path and merges it over the built-in
// places; a user entry replaces a built-in one with the same name. A missing
// file yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("places: read %s: %w", path, err)
	}
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("places: parse %s: %w", path, err)
	}
	for _, p := range f.Places {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		c.Add(p)
	}
	return c, nil
}

// Save writes the non-built-in entries of c to path as TOML.
func (c *Catalog) Save(path string) error {
	var f catalogFile
	for _, p := range c.places {
		if !isBuiltin(p) {
			f.Places = append(f.Places, p)
		}
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("places: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("places: write %s: %w", path, err)
	}
	return nil
}

func isBuiltin(p Place) bool {
	for _, b := range builtin {
		if b.Name == p.Name && b.Latitude == p.Latitude && b.Longitude == p.Longitude && b.Zone == p.Zone {
			return true
		}
	}
	return false
}

// Add inserts p, replacing any place with the same name.
func (c *Catalog) Add(p Place) {
	for i := range c.places {
		if strings.EqualFold(c.places[i].Name, p.Name) {
			c.places[i] = p
			return
		}
	}
	c.places = append(c.places, p)
}

// All returns the places sorted by name.
func (c *Catalog) All() []Place {
	out := make([]Place, len(c.places))
	copy(out, c.places)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the place whose name or alias equals name, ignoring case.
func (c *Catalog) Find(name string) (Place, error) {
	for _, p := range c.places {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
		for _, a := range p.Aliases {
			if strings.EqualFold(a, name) {
				return p, nil
			}
		}
	}
	return Place{}, fmt.Errorf("places: %q: %w", name, ErrNotFound)
}

// Search returns the places whose name or aliases contain query.
func (c *Catalog) Search(query string) []Place {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}
	var out []Place
	for _, p := range c.All() {
		if p.matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Location resolves the time zone for p. An explicit zone wins; otherwise a
// catalog entry whose name occurs in p.Name lends its zone (so "Sector 2,
// București" resolves to Europe/Bucharest); otherwise a fixed zone is built
// from p.Offset.
func (c *Catalog) Location(p Place) (*time.Location, error) {
	if p.Zone != "" {
		loc, err := time.LoadLocation(p.Zone)
		if err != nil {
			return nil, fmt.Errorf("places: zone %q for %q: %w", p.Zone, p.Name, ErrInvalidZone)
		}
		return loc, nil
	}
	if p.Name != "" {
		for _, known := range c.places {
			if known.Zone == "" || !containsName(p.Name, known) {
				continue
			}
			if loc, err := time.LoadLocation(known.Zone); err == nil {
				return loc, nil
			}
		}
	}
	return FixedZone(p.Offset), nil
}

// containsName reports whether name mentions the known place or one of its
// aliases.
func containsName(name string, known Place) bool {
	ln := strings.ToLower(name)
	if strings.Contains(ln, strings.ToLower(known.Name)) {
		return true
	}
	for _, a := range known.Aliases {
		if strings.Contains(ln, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// FixedZone returns a zone with a constant offset of hours east of UTC.
func FixedZone(hours float64) *time.Location {
	secs := int(math.Round(hours * 3600))
	return time.FixedZone(fmt.Sprintf("UTC%+.1f", hours), secs)
}

// OffsetHours returns the UTC offset of loc at t, in hours, including any
// daylight saving shift in effect at t.
func OffsetHours(loc *time.Location, t time.Time) float64 {
	_, secs := t.In(loc).Zone()
	return float64(secs) / 3600.0
}

// FormatOffset renders an offset as the status line suffix, e.g. "(+3.0)".
func FormatOffset(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	return fmt.Sprintf("(%s%.1f)", sign, hours)
}

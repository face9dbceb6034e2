package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ZoneID identifies a game zone.
type ZoneID uint16

var (
	// ErrUnknownCategory is returned for tags outside the fixed enumeration.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrZoneRequired is returned when a zoned category is built without a zone.
	ErrZoneRequired = errors.New("category requires a zone id")
	// ErrZoneNotAllowed is returned when a zone id is given to a fixed category.
	ErrZoneNotAllowed = errors.New("category does not take a zone id")
)

// Descriptor names one conversion target. The zero value is invalid.
type Descriptor struct {
	category Category
	zone     ZoneID
}

// Key is the identity of a Descriptor. Two descriptors denote the same
// target iff their keys are equal.
type Key struct {
	Category Category `json:"type"`
	Index    ZoneID   `json:"index"`
}

// Fixed builds a descriptor for a category without a zone id.
func Fixed(c Category) (Descriptor, error) {
	if !c.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if c.Zoned() {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrZoneRequired, c)
	}
	return Descriptor{category: c}, nil
}

// Zoned builds a descriptor for a zone scoped category.
func Zoned(c Category, zone ZoneID) (Descriptor, error) {
	if !c.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if !c.Zoned() {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrZoneNotAllowed, c)
	}
	return Descriptor{category: c, zone: zone}, nil
}

// MustFixed is like Fixed but panics on error. Intended for static tables.
func MustFixed(c Category) Descriptor {
	d, err := Fixed(c)
	if err != nil {
		panic(err)
	}
	return d
}

// MustZoned is like Zoned but panics on error.
func MustZoned(c Category, zone ZoneID) Descriptor {
	d, err := Zoned(c, zone)
	if err != nil {
		panic(err)
	}
	return d
}

// Category returns the tag of d.
func (d Descriptor) Category() Category {
	return d.category
}

// Zone returns the zone id and whether d carries one.
func (d Descriptor) Zone() (ZoneID, bool) {
	return d.zone, d.category.Zoned()
}

// IsValid reports whether d was built from a known category.
func (d Descriptor) IsValid() bool {
	return d.category.Valid()
}

// Key returns the composite identity of d. Categories without a zone id
// always use index 0.
func (d Descriptor) Key() Key {
	return Key{Category: d.category, Index: d.zone}
}

// Label renders d for humans, e.g. "Weapons" or "EntityNames (7)".
func (d Descriptor) Label() string {
	if d.category.Zoned() {
		return fmt.Sprintf("%s (%d)", d.category, d.zone)
	}
	return string(d.category)
}

// String renders d in the form accepted by Parse.
func (d Descriptor) String() string {
	if d.category.Zoned() {
		return fmt.Sprintf("%s:%d", d.category, d.zone)
	}
	return string(d.category)
}

// Parse reads "Weapons" or "EntityNames:7".
func Parse(s string) (Descriptor, error) {
	name, zone, found := strings.Cut(strings.TrimSpace(s), ":")
	c := Category(name)
	if !found {
		return Fixed(c)
	}
	id, err := strconv.ParseUint(zone, 10, 16)
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid zone id %q: %w", zone, err)
	}
	return Zoned(c, ZoneID(id))
}

type wireDescriptor struct {
	Type  Category `json:"type"`
	Index *ZoneID  `json:"index,omitempty"`
}

// MarshalJSON encodes d as {"type":"EntityNames","index":7}.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	w := wireDescriptor{Type: d.category}
	if d.category.Zoned() {
		zone := d.zone
		w.Index = &zone
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var w wireDescriptor
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var (
		parsed Descriptor
		err    error
	)
	if w.Index != nil {
		parsed, err = Zoned(w.Type, *w.Index)
	} else {
		parsed, err = Fixed(w.Type)
	}
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

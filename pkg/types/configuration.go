package types

import (
	"fmt"
	"strings"
)

// Dimensions carries the measured width/height of a made-to-measure line, in inches.
type Dimensions struct {
	WidthIn  float64 `json:"width_in"`
	HeightIn float64 `json:"height_in"`
}

// AddonSelection is one selected addon with its captured flat price.
type AddonSelection struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Configuration is the typed union of known line-item selections plus a
// bounded open-extension map for vendor-defined fields. Persisted as jsonb
// on cart and order lines; the order copy is an immutable snapshot.
type Configuration struct {
	Dimensions  *Dimensions      `json:"dimensions,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Material    *string          `json:"material,omitempty"`
	MountType   *string          `json:"mount_type,omitempty"`
	ControlType *string          `json:"control_type,omitempty"`
	RailType    *string          `json:"rail_type,omitempty"`
	Addons      []AddonSelection `json:"addons,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// MaxExtraKeys bounds the open-extension map so vendor payloads cannot grow unchecked.
const MaxExtraKeys = 16

// Validate enforces structural constraints on a configuration payload.
func (c Configuration) Validate() error {
	if c.Dimensions != nil {
		if c.Dimensions.WidthIn <= 0 || c.Dimensions.HeightIn <= 0 {
			return fmt.Errorf("configuration: dimensions must be positive")
		}
	}
	for _, addon := range c.Addons {
		if strings.TrimSpace(addon.Name) == "" {
			return fmt.Errorf("configuration: addon name is required")
		}
		if addon.PriceCents < 0 {
			return fmt.Errorf("configuration: addon price cannot be negative")
		}
	}
	if len(c.Extra) > MaxExtraKeys {
		return fmt.Errorf("configuration: extra map exceeds %d keys", MaxExtraKeys)
	}
	for key := range c.Extra {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("configuration: extra keys must be non-empty")
		}
	}
	return nil
}

// ExtraVendorID returns the vendor id hint carried in the open-extension map,
// if any. Part of the effective-vendor fallback chain resolved at write time.
func (c Configuration) ExtraVendorID() (string, bool) {
	if c.Extra == nil {
		return "", false
	}
	val, ok := c.Extra["vendor_id"]
	return val, ok && strings.TrimSpace(val) != ""
}

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TextureRegion is the crop window applied to a texture asset when it is
// rendered as a material swatch. Stored as jsonb via gorm's json serializer.
type TextureRegion struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Validate rejects regions the renderer cannot apply.
func (r TextureRegion) Validate() error {
	if r.X < 0 || r.X > 1 {
		return fmt.Errorf("texture region: x %v out of [0,1]", r.X)
	}
	if r.Y < 0 || r.Y > 1 {
		return fmt.Errorf("texture region: y %v out of [0,1]", r.Y)
	}
	if r.Zoom <= 0 {
		return fmt.Errorf("texture region: zoom %v must be positive", r.Zoom)
	}
	return nil
}

// IsZero reports whether the region carries no crop information.
func (r TextureRegion) IsZero() bool {
	return r == TextureRegion{}
}

// ParseTextureRegion decodes client input into a typed region. Legacy rows
// sometimes arrive as a JSON string wrapping the object (each historical save
// added one layer of escaping), so string layers are unwrapped before the
// object is decoded. Writes always re-serialize from the typed value.
func ParseTextureRegion(raw string) (TextureRegion, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TextureRegion{}, fmt.Errorf("texture region: empty input")
	}

	const maxEscapeLayers = 8
	for i := 0; i < maxEscapeLayers && strings.HasPrefix(raw, `"`); i++ {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return TextureRegion{}, fmt.Errorf("texture region: unwrap: %w", err)
		}
		raw = strings.TrimSpace(inner)
	}

	var region TextureRegion
	if err := json.Unmarshal([]byte(raw), &region); err != nil {
		return TextureRegion{}, fmt.Errorf("texture region: decode: %w", err)
	}
	if err := region.Validate(); err != nil {
		return TextureRegion{}, err
	}
	return region, nil
}

package enums

import "fmt"

// ColorKind distinguishes flat swatches from photographed textures.
type ColorKind string

const (
	ColorKindSolid   ColorKind = "solid"
	ColorKindTexture ColorKind = "texture"
)

var validColorKinds = []ColorKind{
	ColorKindSolid,
	ColorKindTexture,
}

// String implements fmt.Stringer.
func (c ColorKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ColorKind.
func (c ColorKind) IsValid() bool {
	for _, candidate := range validColorKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseColorKind converts raw input into a ColorKind.
func ParseColorKind(value string) (ColorKind, error) {
	for _, candidate := range validColorKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid color kind %q", value)
}

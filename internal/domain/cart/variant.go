package cart

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

var hexColorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{3}([0-9A-Fa-f]{3})?$`)

// Variant is the color/size selection attached to a line item
type Variant struct {
	ColorName string
	ColorHex  string
	Size      string
}

// IsZero reports whether no selection was made
func (v Variant) IsZero() bool {
	return v.ColorName == "" && v.ColorHex == "" && v.Size == ""
}

// ParseColor accepts "name|hex" or a bare hex value.
// An empty input yields empty name and hex.
func ParseColor(raw string) (name, hex string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", nil
	}

	if left, right, ok := strings.Cut(raw, "|"); ok {
		name = strings.TrimSpace(left)
		hex = strings.TrimSpace(right)
	} else {
		hex = raw
	}

	if hex != "" {
		if !hexColorPattern.MatchString(hex) {
			return "", "", shared.NewValidationError("Invalid color value")
		}
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		hex = strings.ToUpper(hex)
	}
	return name, hex, nil
}

// NewVariant builds a variant from raw request values
func NewVariant(color, size string) (Variant, error) {
	name, hex, err := ParseColor(color)
	if err != nil {
		return Variant{}, err
	}
	return Variant{ColorName: name, ColorHex: hex, Size: strings.TrimSpace(size)}, nil
}

// mergeVariant overwrites current with the supplied values, keeping current ones where nothing was supplied
func mergeVariant(current, supplied Variant) Variant {
	merged := current
	if supplied.ColorName != "" || supplied.ColorHex != "" {
		merged.ColorName = supplied.ColorName
		merged.ColorHex = supplied.ColorHex
	}
	if supplied.Size != "" {
		merged.Size = supplied.Size
	}
	return merged
}

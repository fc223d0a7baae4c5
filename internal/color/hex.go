package color

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hexPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// IsHex reports whether s is a #rrggbb or #rrggbbaa color. The leading # is optional.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ParseHex decodes a #rrggbb or #rrggbbaa color. Alpha is 255 when omitted.
func ParseHex(s string) (r, g, b, a uint8, err error) {
	if !IsHex(s) {
		return 0, 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	digits := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(digits) == 6 {
		return uint8(v >> 16), uint8(v >> 8), uint8(v), 255, nil
	}
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Normalize returns hex in canonical uppercase #RRGGBB[AA] form.
func Normalize(hex string) (string, error) {
	if !IsHex(hex) {
		return "", fmt.Errorf("invalid hex color %q", hex)
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(hex, "#")), nil
}

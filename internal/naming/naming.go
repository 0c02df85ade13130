package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultUnit is used when no unit name was given or derived.
const DefaultUnit = "settler_wagon"

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*]+`)
	separators   = regexp.MustCompile(`[\s-]+`)
	underscores  = regexp.MustCompile(`_+`)
	nameTokens   = regexp.MustCompile(`(?i)_portrait|_transparent|_icon|_alpha|_mask|portrait|transparent|icon|alpha|mask`)
)

func normalise(s string) string {
	s = separators.ReplaceAllString(s, "_")
	s = underscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Sanitise makes a unit name safe for use in file names.
func Sanitise(name string) string {
	return normalise(invalidChars.ReplaceAllString(name, ""))
}

// DeriveUnitName guesses a unit name from an uploaded file name by
// dropping the extension and words like "portrait" or "mask".
func DeriveUnitName(path string) string {
	if path == "" {
		return ""
	}
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = nameTokens.ReplaceAllString(base, "")
	return normalise(strings.TrimSpace(base))
}

// Unit picks the explicit name if set, else the derived one, else the default.
func Unit(explicit, derived string) string {
	for _, n := range []string{explicit, derived} {
		if s := Sanitise(strings.TrimSpace(n)); s != "" {
			return s
		}
	}
	return DefaultUnit
}

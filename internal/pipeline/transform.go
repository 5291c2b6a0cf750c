package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Borough ID to name mapping used across datasets. HPD datasets carry the
// numeric ID, 311 and evictions carry the name.
var boroughNames = map[string]string{
	"1": "Manhattan",
	"2": "Bronx",
	"3": "Brooklyn",
	"4": "Queens",
	"5": "Staten Island",
}

// MakeBBL builds the fixed-width 10-character borough-block-lot identifier
// from its components: one borough digit, five block digits, four lot digits,
// zero-padded. Returns "" when any component is missing or unparseable.
func MakeBBL(borough, block, lot string) string {
	b, err := strconv.Atoi(strings.TrimSpace(borough))
	if err != nil || b < 1 || b > 5 {
		return ""
	}
	bl, err := parseComponent(block)
	if err != nil || bl < 1 || bl > 99999 {
		return ""
	}
	l, err := parseComponent(lot)
	if err != nil || l < 1 || l > 9999 {
		return ""
	}
	return fmt.Sprintf("%d%05d%04d", b, bl, l)
}

// parseComponent parses a block or lot value, tolerating decimal strings.
func parseComponent(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// boroughName converts a borough ID ("1".."5") to its name, or nil.
func boroughName(id string) *string {
	if name, ok := boroughNames[strings.TrimSpace(id)]; ok {
		return &name
	}
	return nil
}

// normalizeBBL cleans a source-supplied BBL. PLUTO emits BBLs as decimals
// like "4110150001.00000000"; the integer part must be exactly 10 digits.
func normalizeBBL(raw string) string {
	bbl := raw
	if i := strings.IndexByte(bbl, '.'); i >= 0 {
		bbl = bbl[:i]
	}
	if len(bbl) != 10 {
		return ""
	}
	for _, c := range bbl {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return bbl
}

// strOrNil returns a pointer to s, or nil when s is empty. Row values use nil
// for NULL columns.
func strOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// ptrOrNil flattens a typed pointer into an interface row value without
// wrapping a typed nil.
func ptrOrNil[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

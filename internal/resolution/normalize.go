package resolution

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Normalization keys two contacts to the same owner despite spelling and
// formatting variance. The rules are deterministic on purpose: no fuzzy or
// probabilistic matching, so re-running resolution over unchanged data always
// produces the same portfolio assignments.

var (
	// Legal-entity suffixes stripped from names. Punctuation is removed
	// first, so dotted variants like "L.L.C." arrive here as "LLC".
	suffixPattern = regexp.MustCompile(
		`\b(LLC|INC|INCORPORATED|CORP|CORPORATION|CO|COMPANY|` +
			`LP|LTD|LIMITED|PLLC|PC)\b`)

	// llcPattern detects LLC-style entities before the suffix is stripped.
	llcPattern = regexp.MustCompile(`\b(LLC|L\.L\.C\.?|PLLC|P\.L\.L\.C\.?)\b`)

	punctPattern = regexp.MustCompile(`[^\w\s]`)

	// Street-type abbreviations applied to addresses.
	streetReplacements = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile(`\bSTREET\b`), "ST"},
		{regexp.MustCompile(`\bAVENUE\b`), "AVE"},
		{regexp.MustCompile(`\bBOULEVARD\b`), "BLVD"},
		{regexp.MustCompile(`\bROAD\b`), "RD"},
		{regexp.MustCompile(`\bDRIVE\b`), "DR"},
		{regexp.MustCompile(`\bLANE\b`), "LN"},
		{regexp.MustCompile(`\bPLACE\b`), "PL"},
		{regexp.MustCompile(`\bCOURT\b`), "CT"},
		{regexp.MustCompile(`\bAPARTMENT\b`), "APT"},
		{regexp.MustCompile(`\bSUITE\b`), "STE"},
		{regexp.MustCompile(`\bFLOOR\b`), "FL"},
	}

	// Ordinal suffixes on house numbers: 1ST -> 1, 42ND -> 42.
	ordinalPattern = regexp.MustCompile(`\b(\d+)(ST|ND|RD|TH)\b`)

	// Apartment/suite/floor/unit designators and their following token. The
	// "#" form needs no word boundary of its own.
	unitPattern = regexp.MustCompile(`(\b(APT|STE|UNIT|FL)|#)\s*[\w-]+\b`)

	whitespaceSplit = regexp.MustCompile(`\s+`)
)

// NormalizeName normalizes an owner name for matching: uppercase, strip
// punctuation, strip legal-entity suffixes on word boundaries, collapse
// whitespace.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	result := strings.ToUpper(name)
	result = punctPattern.ReplaceAllString(result, "")
	result = suffixPattern.ReplaceAllString(result, "")
	return collapseWhitespace(result)
}

// NormalizeAddress normalizes a mailing address for matching: uppercase,
// abbreviate street types, strip ordinal suffixes, drop unit designators and
// their token, strip remaining punctuation, collapse whitespace.
func NormalizeAddress(address string) string {
	if address == "" {
		return ""
	}
	result := strings.ToUpper(address)
	for _, r := range streetReplacements {
		result = r.pattern.ReplaceAllString(result, r.repl)
	}
	result = ordinalPattern.ReplaceAllString(result, "$1")
	result = unitPattern.ReplaceAllString(result, "")
	result = punctPattern.ReplaceAllString(result, "")
	return collapseWhitespace(result)
}

// Fingerprint returns the deterministic hash that clusters contacts into
// portfolios: sha256 of "normalizedName|normalizedAddress", truncated to 32
// hex characters.
func Fingerprint(normalizedName, normalizedAddress string) string {
	sum := sha256.Sum256([]byte(normalizedName + "|" + normalizedAddress))
	return hex.EncodeToString(sum[:])[:32]
}

// IsLLC reports whether a raw (pre-normalization) owner name names an
// LLC-style entity.
func IsLLC(name string) bool {
	return llcPattern.MatchString(strings.ToUpper(name))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceSplit.ReplaceAllString(s, " "))
}

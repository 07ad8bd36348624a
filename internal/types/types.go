// =============================================================================
// CAMEO to CSV Converter - Shared Types
// =============================================================================
//
// This package contains the row type shared by the converter and the output
// writers. Keeping it here avoids an import cycle between:
//   - converter
//   - csvwriter
//   - xlsxwriter
//
// =============================================================================

package types

import "strings"

// =============================================================================
// OUTPUT LAYOUT
// =============================================================================

// TierColumns is the fixed number of tier columns in every output row.
// Code hierarchies deeper than this are truncated when a Row is built.
const TierColumns = 3

// Header is the header record written before any data row.
var Header = []string{"tier1code", "tier2code", "tier3code", "description"}

// =============================================================================
// ROW TYPES
// =============================================================================

// Tier is one column of the code hierarchy.
// Valid is false for a column the source code was too short to fill; writers
// emit such a column as an empty, unquoted field.
type Tier struct {
	Code  string
	Valid bool
}

// Row is a single output record.
type Row struct {
	// Tiers holds tier1code, tier2code and tier3code in that order.
	Tiers [TierColumns]Tier

	// Description is the lowercased description text.
	Description string
}

// NewRow maps a code hierarchy onto the fixed tier columns.
// Tokens past TierColumns are dropped; missing trailing columns stay invalid.
func NewRow(codes []string, description string) Row {
	row := Row{Description: description}
	for i := 0; i < len(codes) && i < TierColumns; i++ {
		row.Tiers[i] = Tier{Code: codes[i], Valid: true}
	}
	return row
}

// Fields returns the record as header-ordered values and a parallel slice
// reporting which of them are present.
func (r Row) Fields() ([]string, []bool) {
	values := make([]string, 0, len(Header))
	present := make([]bool, 0, len(Header))
	for _, tier := range r.Tiers {
		values = append(values, tier.Code)
		present = append(present, tier.Valid)
	}
	values = append(values, r.Description)
	present = append(present, true)
	return values, present
}

// TrimField strips characters at or below U+0020 from both ends of s.
// Both output writers apply it to every value they emit.
func TrimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r <= ' '
	})
}

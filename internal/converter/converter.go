// =============================================================================
// CAMEO to CSV Converter - Line Converter
// =============================================================================
//
// This module contains the core conversion logic. It turns one line of the
// CAMEO event-code listing into one output row, or reports that the line
// carries no code definition.
//
// CONVERSION STEPS (per line):
//   1. Find the first run of decimal digits (the CAMEO code)
//   2. Find the first letter-initiated span running to end of line
//      (the description)
//   3. Split the code into its tier hierarchy
//   4. Lowercase the description
//
// Both searches run against the same original line. A line missing either
// part is skipped, never reported as an error.
//
// EXAMPLE:
//   "0311  Express intent to cooperate economically"
//   -> "03", "1", "1", "express intent to cooperate economically"
//
// =============================================================================

package converter

import (
	"regexp"

	"github.com/ginjaninja78/cameo-to-csv/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	// codePattern matches a run of ASCII digits. There is no upper bound on
	// the run length even though published CAMEO codes stop at 4 digits.
	codePattern = regexp.MustCompile(`[0-9]+`)

	// descriptionPattern matches from the first ASCII letter up to the end of
	// the line. The tail stops at any line terminator.
	descriptionPattern = regexp.MustCompile(`[a-zA-Z][^\r\n\x{0085}\x{2028}\x{2029}]*`)
)

// rootCodeLength is the width of the top-level (tier 1) code.
const rootCodeLength = 2

// =============================================================================
// HIERARCHY
// =============================================================================

// Hierarchy is a CAMEO code split into tiers. Element 0 is the 2-digit root;
// every further element is a single digit. It is never truncated, so it can
// be longer than types.TierColumns.
type Hierarchy []string

// SplitCode splits a digit run into its tier hierarchy.
//
// PARAMETERS:
//   - code: The digit run found by ExtractCode.
//
// RETURNS:
//   - The hierarchy. It is empty when code is shorter than 2 characters.
//
// EXAMPLES:
//   "03"     -> ["03"]
//   "0311"   -> ["03", "1", "1"]
//   "031175" -> ["03", "1", "1", "7", "5"]
//   "7"      -> []
func SplitCode(code string) Hierarchy {
	digits := []rune(code)
	if len(digits) < rootCodeLength {
		return Hierarchy{}
	}

	codes := make(Hierarchy, 0, 1+len(digits)-rootCodeLength)
	codes = append(codes, string(digits[:rootCodeLength]))
	for _, d := range digits[rootCodeLength:] {
		codes = append(codes, string(d))
	}

	return codes
}

// =============================================================================
// EXTRACTORS
// =============================================================================

// ExtractCode returns the leftmost maximal run of digits in line.
// The line is NFC-normalized before matching so that canonically equivalent
// input matches the same way.
func ExtractCode(line string) (string, bool) {
	match := codePattern.FindString(norm.NFC.String(line))
	if match == "" {
		return "", false
	}
	return match, true
}

// ExtractDescription returns the span from the leftmost ASCII letter in line
// to the end of the line. It is not anchored after the code.
func ExtractDescription(line string) (string, bool) {
	match := descriptionPattern.FindString(line)
	if match == "" {
		return "", false
	}
	return match, true
}

// =============================================================================
// LINE CONVERTER
// =============================================================================

// LineConverter turns raw listing lines into output rows.
// It holds no per-line state, but the case mapper inside it must not be
// shared between goroutines.
type LineConverter struct {
	lower cases.Caser
}

// NewLineConverter creates a LineConverter.
func NewLineConverter() *LineConverter {
	return &LineConverter{
		lower: cases.Lower(language.Und),
	}
}

// Convert converts one line.
//
// PARAMETERS:
//   - line: One line of the listing, without its terminator.
//
// RETURNS:
//   - The output row.
//   - false if the line has no code or no description and must be skipped.
func (c *LineConverter) Convert(line string) (types.Row, bool) {
	code, ok := ExtractCode(line)
	if !ok {
		return types.Row{}, false
	}

	description, ok := ExtractDescription(line)
	if !ok {
		return types.Row{}, false
	}

	return types.NewRow(SplitCode(code), c.lower.String(description)), true
}

package persiancal

import "strings"

// digitReplacer maps Persian-Arabic numerals (as used
// in Tehran Stock Exchange provider payloads) and Eastern Arabic-Indic
// numerals onto ASCII digits. Provider responses mix all three freely.
var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٬", "", "،", "", // Persian thousands separator / comma
)

// NormalizeDigits rewrites Persian-Arabic and Eastern Arabic-Indic digits
// (and thousands separators) in s to plain ASCII, leaving everything else
// untouched.
func NormalizeDigits(s string) string {
	return digitReplacer.Replace(s)
}

package export

import "strings"

// invalidFilenameChars are the characters replaced during sanitization.
// The set matches the characters Windows rejects in filenames; the same
// set is applied on every platform so a design exports identically
// everywhere.
const invalidFilenameChars = `<>:"/\|?*`

// SanitizeFilename replaces every invalid filename character in name with
// an underscore. The result has the same length as the input; all other
// characters pass through unchanged.
//
// Sanitization does not deduplicate: two names that sanitize to the same
// string map to the same file, and the later export silently overwrites
// the earlier one.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
}

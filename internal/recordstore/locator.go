package recordstore

import (
	"fmt"
	"regexp"
)

// Cross-collection references arrive as locator URLs whose last path
// segment is the 24-hex record id.
var recordIDPattern = regexp.MustCompile(`(?i)([a-f0-9]{24})$`)

// ExtractRecordID returns the record id carried by a locator URL, or an
// empty string when the locator holds none. Plain 24-hex ids pass through
// unchanged.
func ExtractRecordID(locator string) string {
	match := recordIDPattern.FindStringSubmatch(locator)
	if match == nil {
		return ""
	}
	return match[1]
}

// RecordURL builds the locator URL for a record, for writing references
// back to the store.
func RecordURL(baseURL, appID, recordID string) string {
	return fmt.Sprintf("%s/apps/%s/records/%s", baseURL, appID, recordID)
}

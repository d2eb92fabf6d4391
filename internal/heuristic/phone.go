package heuristic

import "github.com/nyaruka/phonenumbers"

// NormalizePhone formats a phone number in E.164 for the given default
// region. Sentinel and unparseable values pass through unchanged so a
// degraded enrichment field is never mangled into something that looks
// authoritative.
func NormalizePhone(raw, region string) string {
	if isSentinel(raw) {
		return raw
	}
	if region == "" {
		region = "US"
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

package importer

import (
	"regexp"
	"strings"
)

const maxMerchantLen = 50

// Card and point-of-sale descriptions carry the merchant name in a
// predictable place.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^CARD\s+\S+\s+(.+?)(?:\s+\d{2}/\d{2}/\d{4}.*)?$`),
	regexp.MustCompile(`(?i)^POS\s+(.+?)(?:\s+\d{2}/\d{2}/\d{4}.*)?$`),
	regexp.MustCompile(`^(.+?)\s+\d{2}/\d{2}/\d{4}\b`),
}

// merchant derives a display label: the counterparty name when known,
// else a name pulled out of the description, else the description itself.
func merchant(counterpartyName, desc string) string {
	if name := strings.TrimSpace(counterpartyName); name != "" {
		return name
	}

	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(desc); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}

	return truncate(strings.TrimSpace(desc), maxMerchantLen)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

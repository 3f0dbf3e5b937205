package detectors

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
)

// readPart is a thin ReadPart wrapper that treats a missing or unreadable
// part as "no content" rather than an error, matching the ErrPartParse
// recovery policy: affected detectors return empty for that part.
func readPart(adapter interfaces.ContainerAdapter, path string) string {
	raw, err := adapter.ReadPart(path)
	if err != nil || raw == nil {
		return ""
	}
	return string(raw)
}

// attr returns the value of attribute name on a StartElement, regardless
// of namespace prefix, or "" if absent.
func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// localName strips an XML namespace prefix, returning the bare tag name
// ("w:t" -> "t" is already done by encoding/xml; this handles the case
// where the decoder reports the prefixed form via start.Name.Local).
func localName(name xml.Name) string {
	if i := strings.IndexByte(name.Local, ':'); i >= 0 {
		return name.Local[i+1:]
	}
	return name.Local
}

// countMatches returns the number of non-overlapping matches of re in s.
func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

// atoiOr returns 0 if s does not parse as an integer.
func atoiOr(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

var wordRe = regexp.MustCompile(`[A-Za-z]+`)

// countWords counts word-ish tokens in s.
func countWords(s string) int {
	return len(wordRe.FindAllString(s, -1))
}

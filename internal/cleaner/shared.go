package cleaner

import (
	"fmt"
	"regexp"
	"strings"
)

var taggedPairRe = map[string]*regexp.Regexp{}
var taggedSelfClosingRe = map[string]*regexp.Regexp{}

func pairedRe(tag string) *regexp.Regexp {
	if re, ok := taggedPairRe[tag]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?s)<%s(?:\s[^>]*)?>.*?</%s>`, tag, tag))
	taggedPairRe[tag] = re
	return re
}

func selfClosingRe(tag string) *regexp.Regexp {
	if re, ok := taggedSelfClosingRe[tag]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`<%s(?:\s[^>]*)?/>`, tag))
	taggedSelfClosingRe[tag] = re
	return re
}

// stripElement deletes every occurrence (paired or self-closing) of an
// XML element identified by its namespaced tag (e.g. "w:del", "a14:ink"),
// returning the rewritten content and the number of occurrences removed.
func stripElement(content []byte, tag string) ([]byte, int) {
	count := 0
	content = pairedRe(tag).ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	content = selfClosingRe(tag).ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	return content, count
}

// unwrapElement removes a paired element's opening/closing tags while
// keeping its inner XML verbatim (spec.md §4.7's "unwrap <w:ins>, keeping
// text").
func unwrapElement(content []byte, tag string) ([]byte, int) {
	re := pairedRe(tag)
	count := 0
	content = re.ReplaceAllFunc(content, func(m []byte) []byte {
		count++
		return innerOf(m, tag)
	})
	return content, count
}

// innerOf strips a single element's opening and closing tag from its full
// matched bytes, assuming m is exactly one "<tag ...>...</tag>" match.
func innerOf(m []byte, tag string) []byte {
	s := string(m)
	openEnd := strings.IndexByte(s, '>')
	if openEnd < 0 {
		return m
	}
	closeTag := "</" + tag + ">"
	closeStart := strings.LastIndex(s, closeTag)
	if closeStart < 0 || closeStart < openEnd+1 {
		return m
	}
	return []byte(s[openEnd+1 : closeStart])
}

var localPairRe = map[string]*regexp.Regexp{}
var localSelfClosingRe = map[string]*regexp.Regexp{}

// stripElementByLocalName deletes every occurrence of an element
// identified only by its local name, regardless of namespace prefix —
// used for docProps parts where the prefix (dc:, cp:, dcterms:) varies by
// element but the local name is fixed.
func stripElementByLocalName(content []byte, localName string) ([]byte, int) {
	paired, ok := localPairRe[localName]
	if !ok {
		paired = regexp.MustCompile(fmt.Sprintf(`(?s)<(?:[A-Za-z0-9]+:)?%s(?:\s[^>]*)?>.*?</(?:[A-Za-z0-9]+:)?%s>`, localName, localName))
		localPairRe[localName] = paired
	}
	selfClose, ok := localSelfClosingRe[localName]
	if !ok {
		selfClose = regexp.MustCompile(fmt.Sprintf(`<(?:[A-Za-z0-9]+:)?%s(?:\s[^>]*)?/>`, localName))
		localSelfClosingRe[localName] = selfClose
	}

	count := 0
	content = paired.ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	content = selfClose.ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	return content, count
}

// removeContentTypeOverride deletes an `<Override PartName="...N..." .../>`
// entry from `[Content_Types].xml` whose PartName contains needle.
func removeContentTypeOverride(content []byte, needle string) ([]byte, int) {
	re := regexp.MustCompile(`<Override[^>]*PartName="[^"]*` + regexp.QuoteMeta(needle) + `[^"]*"[^>]*/>`)
	count := 0
	content = re.ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	return content, count
}

// removeRelationshipsByTarget deletes `<Relationship ... Target="...needle..." .../>`
// entries whose Target contains needle.
func removeRelationshipsByTarget(content []byte, needle string) ([]byte, int) {
	re := regexp.MustCompile(`<Relationship[^>]*Target="[^"]*` + regexp.QuoteMeta(needle) + `[^"]*"[^>]*/>`)
	count := 0
	content = re.ReplaceAllFunc(content, func([]byte) []byte {
		count++
		return nil
	})
	return content, count
}

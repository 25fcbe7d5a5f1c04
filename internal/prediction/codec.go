package prediction

import "strings"

// The evidence list is persisted as a single TEXT column. Items are joined
// with a 3-character delimiter unlikely to occur in prose; raw pipe pairs
// inside an item are escaped so items may contain delimiter characters.
//
// Known limitation: escaping targets the 2-character pipe pair only, so an
// item whose escaped form contains the 3-character delimiter literal (e.g.
// an item that is exactly "|||") does not round-trip. Accepted risk.
const (
	evidenceDelimiter = "|||"
	pipeEscape        = "||PIPE||"
	rawPipePair       = "||"
)

// EncodeEvidence folds an evidence list into its persisted scalar form.
// Items that are empty after trimming are dropped. Total function: every
// input produces a defined output.
func EncodeEvidence(items []string) string {
	encoded := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		encoded = append(encoded, strings.ReplaceAll(item, rawPipePair, pipeEscape))
	}
	return strings.Join(encoded, evidenceDelimiter)
}

// DecodeEvidence expands the persisted scalar back into the evidence list.
// An empty scalar yields an empty list; segments that are empty after
// trimming are dropped.
func DecodeEvidence(data string) []string {
	if data == "" {
		return []string{}
	}
	segments := strings.Split(data, evidenceDelimiter)
	items := make([]string, 0, len(segments))
	for _, segment := range segments {
		item := strings.ReplaceAll(segment, pipeEscape, rawPipePair)
		if strings.TrimSpace(item) == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

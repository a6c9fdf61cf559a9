package domain

import "strings"

// TrailSeparator follows every answer-value in an encoded trail, including the last.
const TrailSeparator = "|"

// Trail is the ordered sequence of answer-values recorded during a run.
type Trail []string

// Key encodes the trail as a pattern-table key.
func (t Trail) Key() string {
	return EncodeTrail(t)
}

// Clone returns an independent copy.
func (t Trail) Clone() Trail {
	if t == nil {
		return nil
	}
	return append(Trail(nil), t...)
}

// EncodeTrail joins every answer-value followed by TrailSeparator:
// ["x","y"] encodes to "x|y|" and the empty trail to "".
func EncodeTrail(t Trail) string {
	var sb strings.Builder
	for _, answer := range t {
		sb.WriteString(answer)
		sb.WriteString(TrailSeparator)
	}
	return sb.String()
}

// LastAnswer returns the most recently recorded answer-value.
// It reports false for an empty trail.
func LastAnswer(t Trail) (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	return t[len(t)-1], true
}

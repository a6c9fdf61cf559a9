package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAnswerSize bounds an answer in bytes. Answers are option keys or
// navigation commands, so the bound is small. QUIZTREE_MAX_ANSWER_SIZE
// overrides it.
const MaxAnswerSize = 256

// EnvMaxAnswerSize names the environment variable overriding MaxAnswerSize.
const EnvMaxAnswerSize = "QUIZTREE_MAX_ANSWER_SIZE"

var (
	ErrAnswerTooLong  = errors.New("answer is longer than any option key")
	ErrAnswerEncoding = errors.New("answer is not valid UTF-8")
)

// CleanAnswer normalizes a raw answer into an option key candidate.
// Surrounding whitespace is trimmed and control characters are dropped,
// since no option key spans lines or carries terminal escapes.
func CleanAnswer(raw string) (string, error) {
	if limit := answerLimit(); len(raw) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrAnswerTooLong, len(raw), limit)
	}
	if !utf8.ValidString(raw) {
		return "", ErrAnswerEncoding
	}
	return strings.TrimSpace(strings.Map(dropControl, raw)), nil
}

func dropControl(r rune) rune {
	if r == '\t' {
		return ' '
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func answerLimit() int {
	n, err := strconv.Atoi(os.Getenv(EnvMaxAnswerSize))
	if err != nil || n <= 0 {
		return MaxAnswerSize
	}
	return n
}

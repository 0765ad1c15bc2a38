package util

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// DecodeOracleJSON parses JSON out of free-form oracle output. Models wrap
// structured answers in markdown fences or prose, so three strategies are
// tried in strict order:
//
//  1. the contents of a fenced ```json block,
//  2. the first balanced top-level array or object embedded in the text,
//  3. the whole string as-is.
//
// The first strategy whose payload unmarshals into target wins. An error is
// returned only when all three fail.
func DecodeOracleJSON(raw string, target any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty oracle output")
	}

	if matches := fencedBlockRe.FindStringSubmatch(raw); len(matches) > 1 {
		if err := json.Unmarshal([]byte(matches[1]), target); err == nil {
			return nil
		}
	}

	if payload := firstBalancedPayload(raw); payload != "" {
		if err := json.Unmarshal([]byte(payload), target); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("decode oracle output: %w (content: %s)", err, TruncateForLog(raw, 100))
	}

	return nil
}

// firstBalancedPayload returns the first balanced JSON array or object found
// in the input, whichever opens earlier. Quotes and escapes are honored so
// brackets inside string values do not confuse the scan.
func firstBalancedPayload(input string) string {
	arrStart := strings.Index(input, "[")
	objStart := strings.Index(input, "{")

	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if payload := scanBalanced(input[arrStart:], '[', ']'); payload != "" {
			return payload
		}
	}

	if objStart >= 0 {
		if payload := scanBalanced(input[objStart:], '{', '}'); payload != "" {
			return payload
		}
	}

	return ""
}

func scanBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escaped := false

	for i, ch := range input {
		if escaped {
			escaped = false
			continue
		}

		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}

	return ""
}

package translator

import "strings"

// RepairDuplicateLines removes consecutive duplicate sentences from an
// assembled translation. Scanning line by line against the previous kept
// line: an identical line is dropped; when the previous line is a substring
// of the current one, the longer current line replaces it; when the current
// line is a substring of the previous one, the current line is dropped.
// Blank lines pass through and reset the comparison.
func RepairDuplicateLines(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	prev := ""

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			result = append(result, line)
			prev = ""
			continue
		}

		if stripped == prev {
			continue
		}

		if prev != "" && strings.Contains(stripped, prev) {
			if len(result) > 0 {
				result[len(result)-1] = line
			} else {
				result = append(result, line)
			}
			prev = stripped
			continue
		}

		if prev != "" && strings.Contains(prev, stripped) {
			continue
		}

		result = append(result, line)
		prev = stripped
	}

	return strings.Join(result, "\n")
}

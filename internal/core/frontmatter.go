package core

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor files carry their metadata in a leading frontmatter block
// delimited by lines of three dashes. Two wrappings occur in the wild:
// the block sits directly at the top of the file, or it is nested
// inside a fenced code region tagged with the kind's label. The fenced
// form is tried first; when both match, it wins.
//
// Parsing is two-stage: ExtractBlock isolates the block text, then
// ParseBlock turns it into a flat key/value mapping. A missing key is
// an empty string, never an error.

// keyValueLine matches a single "key: value" line for the fallback
// parser, with optional surrounding quotes on the value.
var keyValueLine = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)

// ExtractBlock isolates the frontmatter block text from a descriptor
// file. fenceTag is the kind-specific code-fence label; plain and
// "markdown" fences are accepted too. Returns false if no block is
// found under either convention.
func ExtractBlock(content, fenceTag string) (string, bool) {
	fencedRe := regexp.MustCompile("(?s)```(?:" + regexp.QuoteMeta(fenceTag) + "|markdown)?[ \t]*\n(.*?)\n```")
	if m := fencedRe.FindStringSubmatch(content); m != nil {
		if block, ok := dashedBlock(m[1]); ok {
			return block, true
		}
	}
	return dashedBlock(content)
}

// dashedBlock returns the text between a leading "---" line and the
// next "---" line. The opening delimiter must be the first non-blank
// line.
func dashedBlock(content string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	opened := false
	var block strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !opened {
			if trimmed == "" {
				continue
			}
			if trimmed != "---" {
				return "", false
			}
			opened = true
			continue
		}

		if trimmed == "---" {
			return block.String(), true
		}
		block.WriteString(line)
		block.WriteString("\n")
	}
	// Unterminated block.
	return "", false
}

// ParseBlock parses an isolated frontmatter block into a flat mapping.
// The block is YAML in practice, so it is handed to the YAML parser
// first; if that fails (malformed indentation, stray tabs) it degrades
// to a line scan where the first "key: value" match per key wins and
// surrounding quotes are stripped. Either way non-scalar values are
// dropped: only flat keys matter here.
func ParseBlock(block string) map[string]string {
	fields := make(map[string]string)

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err == nil {
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = strings.TrimSpace(val)
			case bool, int, int64, float64:
				fields[k] = fmt.Sprint(val)
			}
		}
		return fields
	}

	scanner := bufio.NewScanner(strings.NewReader(block))
	for scanner.Scan() {
		m := keyValueLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		key := m[1]
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = stripQuotes(strings.TrimSpace(m[2]))
	}
	return fields
}

// stripQuotes removes one pair of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ParseDescriptor extracts the name and description from a descriptor
// file's frontmatter. A file with no recognizable block yields empty
// fields, not an error: the caller falls back to the identifier.
func ParseDescriptor(content string, kind ResourceKind) ItemMetadata {
	block, ok := ExtractBlock(content, kind.spec().fenceTag)
	if !ok {
		return ItemMetadata{}
	}
	fields := ParseBlock(block)
	return ItemMetadata{
		DisplayName: fields["name"],
		Description: fields["description"],
	}
}

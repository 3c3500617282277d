package core

import "strings"

// Sparse-checkout patterns are the durable state of an installation:
// one pattern per line in the working copy's pattern file. Skills are
// directory-scoped ("/name/"), subagents single-file-scoped ("/name").
// Encode and decode must be exact inverses or the installed set
// silently drifts from what the working copy actually contains.

// EncodePattern turns an identifier into its persisted pattern form.
func EncodePattern(kind ResourceKind, id string) string {
	if kind.spec().dirScoped {
		return "/" + id + "/"
	}
	return "/" + id
}

// EncodePatterns maps identifiers to patterns, preserving order.
func EncodePatterns(kind ResourceKind, ids []string) []string {
	patterns := make([]string, 0, len(ids))
	for _, id := range ids {
		patterns = append(patterns, EncodePattern(kind, id))
	}
	return patterns
}

// DecodePattern inverts EncodePattern. It returns false for blank
// lines, comments, lines that do not match the kind's shape, and names
// that decode to something that could not have been encoded (empty,
// hidden, or containing a path separator).
func DecodePattern(kind ResourceKind, pattern string) (string, bool) {
	line := strings.TrimSpace(pattern)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
		return "", false
	}

	spec := kind.spec()
	if spec.dirScoped {
		if !strings.HasSuffix(line, "/") {
			return "", false
		}
		id := strings.Trim(line, "/")
		if !validIdentifier(id) {
			return "", false
		}
		return id, true
	}

	if !strings.HasSuffix(line, spec.fileSuffix) {
		return "", false
	}
	id := strings.TrimPrefix(line, "/")
	if !validIdentifier(id) {
		return "", false
	}
	return id, true
}

// DecodePatterns decodes a pattern list back to bare identifiers,
// dropping lines that do not decode. Order is preserved.
func DecodePatterns(kind ResourceKind, lines []string) []string {
	var ids []string
	for _, line := range lines {
		if id, ok := DecodePattern(kind, line); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// validIdentifier rejects names that EncodePattern could never have
// produced: empty strings, hidden names, and anything with a path
// separator in it.
func validIdentifier(id string) bool {
	return id != "" && !strings.HasPrefix(id, ".") && !strings.Contains(id, "/")
}

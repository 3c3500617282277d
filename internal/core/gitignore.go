package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreFile = ".gitignore"

// EnsureIgnored appends entry to the project's .gitignore if it is not
// already listed. Returns true when the file was modified. The file is
// created if absent; existing content and its trailing-newline state
// are preserved.
func EnsureIgnored(projectDir, entry string) (bool, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false, fmt.Errorf("gitignore entry is empty")
	}

	path := filepath.Join(projectDir, gitignoreFile)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", gitignoreFile, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(entry)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", gitignoreFile, err)
	}
	return true, nil
}

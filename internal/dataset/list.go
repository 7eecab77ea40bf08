package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadList opens a dataset list file and returns its identifiers in order.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset list '%s': %w", path, err)
	}
	defer f.Close()

	datasets, err := ParseList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset list '%s': %w", path, err)
	}
	return datasets, nil
}

// ParseList reads one identifier per line. Blank lines and lines whose first
// character is '#' are skipped; an indented '#' is not a comment.
func ParseList(r io.Reader) ([]string, error) {
	var datasets []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if d := strings.TrimSpace(line); d != "" {
			datasets = append(datasets, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return datasets, nil
}

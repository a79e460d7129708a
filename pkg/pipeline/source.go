package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// Load reads the HTML file at path (a plain path or a file:// URL) and
// returns it as UTF-8. The source encoding comes from a byte order mark or
// a <meta charset> declaration; undeclared non-UTF-8 input is read as
// windows-1252.
func Load(path string) (string, error) {
	path = strings.TrimPrefix(path, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return string(decoded), nil
}

// Package formats provides parsers for the asset file formats used by the lessons.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single statement; exported meshes can carry very
// long face lines.
const maxLineSize = 4 * 1024 * 1024

// scanStatements splits a line-oriented text format into keyword and
// arguments, dropping '#' comments and blank lines. Errors from fn are
// prefixed with the 1-based line number.
func scanStatements(r io.Reader, fn func(key string, args []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := fn(fields[0], fields[1:]); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

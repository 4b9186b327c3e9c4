// Package checksum parses the one file format the core still touches
// directly: a repository's ".sha1"/".md5" checksum sidecar file (spec §6
// "File formats touched... Checksum files").
package checksum

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var checksumLinePattern = regexp.MustCompile(`^.+= [0-9A-Fa-f]+$`)

// ParseChecksumLine extracts the checksum token from the first non-empty
// line of r (spec §6): if the line matches `^.+= [0-9A-Fa-f]+$`, the token
// after the last space is the checksum; otherwise the token before the
// first space is (plain "<hex>" files and "<hex>  filename" files both
// fall into this second case).
func ParseChecksumLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if checksumLinePattern.MatchString(line) {
			idx := strings.LastIndex(line, " ")
			return line[idx+1:], nil
		}
		if idx := strings.Index(line, " "); idx >= 0 {
			return line[:idx], nil
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", nil
}

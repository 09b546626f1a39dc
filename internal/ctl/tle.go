package ctl

import (
	"fmt"
	"os"
	"strings"
)

// tleSet holds one satellite's two-line element set, with an optional name
// taken from the title line when the file has three lines.
type tleSet struct {
	Name  string
	Line1 string
	Line2 string
}

// readTLEFile loads a TLE from disk. Both the two-line and the three-line
// (title plus elements) formats are accepted; blank lines are ignored.
func readTLEFile(path string) (tleSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return tleSet{}, err
	}

	var lines []string
	for _, l := range strings.Split(string(b), "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}

	switch len(lines) {
	case 2:
		return tleSet{Line1: lines[0], Line2: lines[1]}, nil
	case 3:
		return tleSet{Name: strings.TrimSpace(lines[0]), Line1: lines[1], Line2: lines[2]}, nil
	default:
		return tleSet{}, fmt.Errorf("%s: expected 2 or 3 lines, got %d", path, len(lines))
	}
}

// Package mechanics loads the shop's mechanic roster from its config file.
package mechanics

import (
	"bufio"
	"os"
	"strings"
)

// NoneSelected is the placeholder entry shown before a mechanic is chosen.
const NoneSelected = "no mechanic selected"

// Load reads the roster file: one display name per line, blank lines and
// lines starting with a quote or hash skipped. An empty roster is not an
// error; the shop may simply not have configured one yet.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var roster []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		switch name[0] {
		case '"', '\'', '#':
			continue
		}
		roster = append(roster, name)
	}
	return roster, scanner.Err()
}

// EnsureListed returns a roster that includes name, appending it when it is
// missing. Work orders keep their mechanic even after the roster changes, so
// a loaded record must stay displayable.
func EnsureListed(roster []string, name string) []string {
	if name == "" || name == NoneSelected {
		return roster
	}
	for _, m := range roster {
		if m == name {
			return roster
		}
	}
	out := make([]string, 0, len(roster)+1)
	out = append(out, roster...)
	return append(out, name)
}

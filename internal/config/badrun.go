package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// LoadBadRunList reads run numbers, one per line. Blank lines and text after
// '#' are ignored.
func LoadBadRunList(path string) ([]int, error) {
	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}
	var runs []int
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		run, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("bad run list %s line %d: %w", path, line, err)
		}
		runs = append(runs, run)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan bad run list: %w", err)
	}
	return runs, nil
}

// GetBadRuns merges the inline bad runs with those listed in BadRunFile.
func (e *EventCutConfig) GetBadRuns() ([]int, error) {
	runs := append([]int(nil), e.BadRuns...)
	if e.BadRunFile == nil || *e.BadRunFile == "" {
		return runs, nil
	}
	more, err := LoadBadRunList(*e.BadRunFile)
	if err != nil {
		return nil, err
	}
	return append(runs, more...), nil
}

package editor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseScript reads one command per line. Blank lines and lines starting
// with '#' are skipped, and " #" starts a trailing comment.
func ParseScript(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, " #"); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		events = append(events, Event{
			Command: strings.ToLower(fields[0]),
			Args:    fields[1:],
			Line:    line,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return events, nil
}

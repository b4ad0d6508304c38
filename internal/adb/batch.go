package adb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// batchMarker delimits per-command segments in a multiplexed shell
// invocation. The device echoes marker+index before each command runs, so
// the combined output can be split back into positional slots no matter how
// segments arrive.
const batchMarker = "__DROID_BATCH__"

// ShellBatch runs the given commands in a single shell round-trip and
// returns one output per command, in submission order. Commands must be
// independent of each other. If the whole invocation fails every slot is an
// empty string; downstream parsers see "no data" instead of a composite
// failure.
func (c *Client) ShellBatch(ctx context.Context, commands []string) []string {
	if len(commands) == 0 {
		return nil
	}

	var composite strings.Builder
	for i, command := range commands {
		fmt.Fprintf(&composite, "echo %s%d; %s; ", batchMarker, i, command)
	}

	results := make([]string, len(commands))

	output, err := c.Shell(ctx, composite.String())
	if err != nil {
		c.logger.Debug("Batched shell invocation failed, returning empty slots", "commands", len(commands), "error", err)
		return results
	}

	current := -1
	var segment []string
	flush := func() {
		if current >= 0 && current < len(results) {
			results[current] = strings.TrimSpace(strings.Join(segment, "\n"))
		}
	}

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, batchMarker) {
			flush()
			segment = segment[:0]

			index, parseErr := strconv.Atoi(strings.TrimSpace(line[len(batchMarker):]))
			if parseErr != nil {
				// Corrupt marker suffix: recover into the next sequential
				// slot rather than losing the segment.
				current++
				c.logger.Debug("Unparseable batch marker index, assuming next slot", "line", line, "slot", current)
				continue
			}
			current = index
			continue
		}

		if current >= 0 {
			segment = append(segment, line)
		}
	}
	flush()

	return results
}

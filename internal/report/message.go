// Package report aggregates per-line review findings into compact display
// groups with separate counts for findings already on the host and new ones.
package report

import (
	"fmt"
	"sort"
)

// ProximityThreshold is the maximum gap between consecutive lines that
// still belong to the same display group. Lines within 2 of each other are
// grouped; a gap of 3 or more starts a new group.
const ProximityThreshold = 2

// Group is one display group: the first line of a run and the text to show
type Group struct {
	Line int
	Text string
}

// ErrorMessage tracks the lines on which a single finding text was
// reported during one review pass. Visibility is monotonic: once a line is
// marked as seen on the host it never downgrades to new.
type ErrorMessage struct {
	template string
	lines    map[int]bool
}

// NewErrorMessage creates an aggregator for one distinct finding text
func NewErrorMessage(template string) *ErrorMessage {
	return &ErrorMessage{
		template: template,
		lines:    make(map[int]bool),
	}
}

// Template returns the finding text this aggregator groups
func (m *ErrorMessage) Template() string { return m.template }

// Track registers or upgrades the visibility of a line. Returns the
// receiver to allow chaining.
func (m *ErrorMessage) Track(line int, onHost bool) *ErrorMessage {
	m.lines[line] = m.lines[line] || onHost
	return m
}

// Count returns the number of distinct lines tracked
func (m *ErrorMessage) Count() int { return len(m.lines) }

// CountOnHost returns the number of distinct lines already visible on the
// review host
func (m *ErrorMessage) CountOnHost() int {
	n := 0
	for _, onHost := range m.lines {
		if onHost {
			n++
		}
	}
	return n
}

// CountNew returns the number of distinct lines not yet on the host
func (m *ErrorMessage) CountNew() int { return m.Count() - m.CountOnHost() }

// Groups partitions the tracked lines into maximal runs of nearby lines
// and renders one display group per run, in ascending order of first line.
// A run of one line shows the template unchanged; a longer run is labeled
// with its line count and the inclusive span it covers.
func (m *ErrorMessage) Groups() []Group {
	if len(m.lines) == 0 {
		return nil
	}

	lines := make([]int, 0, len(m.lines))
	for line := range m.lines {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	var groups []Group
	start := 0
	for i := 1; i <= len(lines); i++ {
		if i < len(lines) && lines[i]-lines[i-1] <= ProximityThreshold {
			continue
		}
		run := lines[start:i]
		groups = append(groups, Group{Line: run[0], Text: m.render(run)})
		start = i
	}
	return groups
}

func (m *ErrorMessage) render(run []int) string {
	if len(run) == 1 {
		return m.template
	}
	span := run[len(run)-1] - run[0] + 1
	return fmt.Sprintf("%s <sub>%dx spanning %d lines</sub>", m.template, len(run), span)
}

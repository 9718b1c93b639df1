/*
 *
 * Copyright 2025 The Aeron-Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package ui implements the terminal UI for the counters stat tool: a
// table of live counters resampled from the mapped regions on a tick.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Row is one counter in the rendered table.
type Row struct {
	ID     int32
	TypeID int32
	Value  int64
	Label  string
}

// Snapshot samples the registry. It is called on every tick from the UI
// goroutine, except while the view is paused; implementations read the
// mapped regions and return copies.
type Snapshot func() ([]Row, error)

// tickMsg triggers a resample.
type tickMsg time.Time

// Model is the bubbletea model for watch mode.
type Model struct {
	snapshot Snapshot
	interval time.Duration
	source   string // path of the counters file, shown in the header

	rows    []Row
	err     error
	sampled time.Time

	offset int
	height int
	width  int
	paused bool
}

// New creates a watch model sampling snapshot every interval.
func New(snapshot Snapshot, interval time.Duration, source string) Model {
	return Model{
		snapshot: snapshot,
		interval: interval,
		source:   source,
		height:   24,
		width:    80,
	}
}

// Init schedules the first sample.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.rows)-1 {
				m.offset++
			}
		case "home", "g":
			m.offset = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.paused {
			rows, err := m.snapshot()
			m.rows = rows
			m.err = err
			m.sampled = time.Time(msg)
		}
		return m, m.tick()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b []byte

	status := fmt.Sprintf("%d counters", len(m.rows))
	if m.paused {
		status += "  " + stylePaused.Render("PAUSED")
	}
	if !m.sampled.IsZero() {
		status += styleDim.Render(fmt.Sprintf("  sampled %s", m.sampled.Format("15:04:05")))
	}

	b = append(b, styleHeader.Render("aeronstat")...)
	b = append(b, ' ', ' ')
	b = append(b, styleDim.Render(m.source)...)
	b = append(b, '\n')
	b = append(b, status...)
	b = append(b, '\n', '\n')

	if m.err != nil {
		b = append(b, styleError.Render(fmt.Sprintf("sample failed: %v", m.err))...)
		b = append(b, '\n')
		return string(b)
	}

	b = append(b, styleColHeader.Render(fmt.Sprintf("%6s  %8s  %20s  %s", "ID", "TYPE", "VALUE", "LABEL"))...)
	b = append(b, '\n')

	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}

	end := m.offset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	start := m.offset
	if start > end {
		start = end
	}

	for _, row := range m.rows[start:end] {
		line := fmt.Sprintf("%6d  %8d  %20d  %s", row.ID, row.TypeID, row.Value, row.Label)
		b = append(b, styleRow.Render(line)...)
		b = append(b, '\n')
	}

	b = append(b, '\n')
	b = append(b, styleHelp.Render("q quit · space pause · j/k scroll")...)
	b = append(b, '\n')

	return string(b)
}

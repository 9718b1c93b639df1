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

package ui

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader    = lipgloss.NewStyle().Bold(true)
	styleDim       = lipgloss.NewStyle().Faint(true)
	styleColHeader = lipgloss.NewStyle().Bold(true).Faint(true)
	styleRow       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	stylePaused    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // yellow
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	styleHelp      = lipgloss.NewStyle().Faint(true)
)

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

// aeronstat observes the counters registry of a running system through its
// counters file. It never writes to the mapped regions.
//
// Usage:
//
//	aeronstat [-cnc path] [-config file] [-json] [-once] [-interval 1s] [-type id]
//
// With a TTY it runs an interactive refreshing view; otherwise, or with
// -once, it prints a single plain listing. -json emits one snapshot as JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sugawarayuuta/sonnet"

	"github.com/nickelaway/aeron/cnc"
	"github.com/nickelaway/aeron/counters"
	"github.com/nickelaway/aeron/internal/config"
	"github.com/nickelaway/aeron/internal/ui"
)

func main() {
	var (
		cncPath    = flag.String("cnc", "", "path to the counters file (default: conventional location)")
		configPath = flag.String("config", "", "optional YAML config file")
		jsonOut    = flag.Bool("json", false, "emit one JSON snapshot and exit")
		once       = flag.Bool("once", false, "print one plain listing and exit")
		interval   = flag.Duration("interval", 0, "refresh interval in watch mode")
		typeID     = flag.Int("type", -1, "show only counters with this type id")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("aeronstat: %v", err)
		}
		cfg = loaded
	}

	// Flags override the config file.
	if *cncPath != "" {
		cfg.CncFile = *cncPath
	}
	if cfg.CncFile == "" {
		cfg.CncFile = cnc.DefaultPath()
	}
	if *interval > 0 {
		cfg.Stat.Interval = config.Duration(*interval)
	}
	if *jsonOut {
		cfg.Stat.JSON = true
	}
	if *once {
		cfg.Stat.NoTUI = true
	}
	if *typeID >= 0 {
		cfg.Stat.TypeID = int32(*typeID)
	}

	file, err := cnc.OpenReadOnly(cfg.CncFile)
	if err != nil {
		log.Fatalf("aeronstat: %v", err)
	}
	defer file.Close()

	reader, err := counters.NewReader(file.MetadataRegion(), file.ValuesRegion())
	if err != nil {
		log.Fatalf("aeronstat: %v", err)
	}

	sample := func() []ui.Row {
		var rows []ui.Row
		reader.ForEach(func(id, tid int32, key, label []byte) {
			if cfg.Stat.TypeID >= 0 && tid != cfg.Stat.TypeID {
				return
			}
			rows = append(rows, ui.Row{
				ID:     id,
				TypeID: tid,
				Value:  reader.CounterValue(id),
				Label:  string(label),
			})
		})
		return rows
	}

	switch {
	case cfg.Stat.JSON:
		if err := printJSON(file, sample()); err != nil {
			log.Fatalf("aeronstat: %v", err)
		}
	case cfg.Stat.NoTUI || !isatty.IsTerminal(os.Stdout.Fd()):
		printPlain(file, sample())
	default:
		model := ui.New(
			func() ([]ui.Row, error) { return sample(), nil },
			cfg.Stat.Interval.Std(),
			cfg.CncFile,
		)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			log.Fatalf("aeronstat: %v", err)
		}
	}
}

// snapshot is the JSON document shape for -json output.
type snapshot struct {
	CncFile   string    `json:"cnc_file"`
	WriterPID uint32    `json:"writer_pid"`
	Capacity  int32     `json:"capacity"`
	TakenAt   time.Time `json:"taken_at"`
	Counters  []counter `json:"counters"`
}

type counter struct {
	ID     int32  `json:"id"`
	TypeID int32  `json:"type_id"`
	Value  int64  `json:"value"`
	Label  string `json:"label"`
}

func printJSON(file *cnc.File, rows []ui.Row) error {
	snap := snapshot{
		CncFile:   file.Path(),
		WriterPID: file.WriterPID(),
		Capacity:  file.Capacity(),
		TakenAt:   time.Now(),
		Counters:  make([]counter, 0, len(rows)),
	}
	for _, row := range rows {
		snap.Counters = append(snap.Counters, counter{
			ID:     row.ID,
			TypeID: row.TypeID,
			Value:  row.Value,
			Label:  row.Label,
		})
	}

	out, err := sonnet.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

func printPlain(file *cnc.File, rows []ui.Row) {
	fmt.Printf("%s: %d of %d counters allocated (writer pid %d)\n",
		file.Path(), len(rows), file.Capacity(), file.WriterPID())
	fmt.Printf("%6s  %8s  %20s  %s\n", "ID", "TYPE", "VALUE", "LABEL")
	for _, row := range rows {
		fmt.Printf("%6d  %8d  %20d  %s\n", row.ID, row.TypeID, row.Value, row.Label)
	}
}

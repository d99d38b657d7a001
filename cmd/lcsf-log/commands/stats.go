package commands

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/lcsf-protocol/lcsf-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Cores             map[string]*CoreStats
	Protocols         map[uint16]*ProtocolStats
	Errors            int
	ErrorsReported    int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// CoreStats holds statistics for a single core instance.
type CoreStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Mode      string
	BytesIn   int
	BytesOut  int
}

// ProtocolStats holds per-protocol counts.
type ProtocolStats struct {
	Name         string
	Fingerprint  string
	CommandsIn   int
	CommandsOut  int
	HandlerTotal time.Duration
}

// CollectStats reads every event of the log file.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Cores:             make(map[string]*CoreStats),
		Protocols:         make(map[uint16]*ProtocolStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	core, ok := s.Cores[event.CoreID]
	if !ok {
		core = &CoreStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Mode:      event.Mode.String(),
		}
		s.Cores[event.CoreID] = core
	}
	core.Events++
	if event.Timestamp.After(core.LastSeen) {
		core.LastSeen = event.Timestamp
	}

	switch {
	case event.Frame != nil:
		if event.Direction == log.DirectionIn {
			core.BytesIn += event.Frame.Size
		} else {
			core.BytesOut += event.Frame.Size
		}
	case event.Registration != nil:
		p := s.protocol(event.Registration.ProtocolID)
		p.Name = event.Registration.Name
		p.Fingerprint = event.Registration.Fingerprint
	case event.Message != nil:
		p := s.protocol(event.Message.ProtocolID)
		if event.Direction == log.DirectionIn {
			p.CommandsIn++
		} else {
			p.CommandsOut++
		}
		if event.Message.HandlerTime != nil {
			p.HandlerTotal += *event.Message.HandlerTime
		}
	case event.Error != nil:
		s.Errors++
		if event.Error.Reported {
			s.ErrorsReported++
		}
	}
}

func (s *Stats) protocol(id uint16) *ProtocolStats {
	p, ok := s.Protocols[id]
	if !ok {
		p = &ProtocolStats{}
		s.Protocols[id] = p
	}
	return p
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== LCSF Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTranscoder, log.LayerValidator, log.LayerDispatch} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryError, log.CategoryRegistration} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Cores: %d\n", len(stats.Cores))
	if len(stats.Cores) > 0 {
		type coreInfo struct {
			id    string
			stats *CoreStats
		}
		cores := make([]coreInfo, 0, len(stats.Cores))
		for id, cs := range stats.Cores {
			cores = append(cores, coreInfo{id, cs})
		}
		sort.Slice(cores, func(i, j int) bool {
			return cores[i].stats.FirstSeen.Before(cores[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range cores {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s, %d events, duration %s\n", shortenCoreID(c.id), c.stats.Mode, c.stats.Events, duration)
			fmt.Fprintf(w, "           Bytes: %d in, %d out\n", c.stats.BytesIn, c.stats.BytesOut)
		}
	}

	if len(stats.Protocols) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Protocols: %d\n", len(stats.Protocols))
		ids := make([]uint16, 0, len(stats.Protocols))
		for id := range stats.Protocols {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			p := stats.Protocols[id]
			name := p.Name
			if name == "" {
				name = "unregistered"
			}
			fmt.Fprintf(w, "  [0x%x] %s: %d in, %d out", id, name, p.CommandsIn, p.CommandsOut)
			if p.CommandsIn > 0 && p.HandlerTotal > 0 {
				fmt.Fprintf(w, ", avg handler %s", formatDuration(p.HandlerTotal/time.Duration(p.CommandsIn)))
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d (%d reported to peer)\n", stats.Errors, stats.ErrorsReported)
	}
}

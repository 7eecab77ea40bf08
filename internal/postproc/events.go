package postproc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/histio"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const maxLineSize = 16 << 20

// ReadEvents decodes one event per non-blank line of r.
func ReadEvents(r io.Reader) ([]cutflow.Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var events []cutflow.Event
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		ty, err := ctyjson.ImpliedType(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		val, err := ctyjson.Unmarshal(raw, ty)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ev, err := cutflow.EventFromValue(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ReadEventsFile reads the events stored at path.
func ReadEventsFile(path string) ([]cutflow.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input '%s': %w", path, err)
	}
	defer f.Close()
	events, err := ReadEvents(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read events from '%s': %w", path, err)
	}
	return events, nil
}

// eventWriter writes events as JSON Lines.
type eventWriter struct {
	w *bufio.Writer
	n int64
}

func newEventWriter(w io.Writer) *eventWriter {
	return &eventWriter{w: bufio.NewWriter(w)}
}

func (ew *eventWriter) Write(ev cutflow.Event) error {
	v := ev.Value()
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return err
	}
	if _, err := ew.w.Write(raw); err != nil {
		return err
	}
	ew.n++
	return ew.w.WriteByte('\n')
}

func (ew *eventWriter) Flush() error {
	return ew.w.Flush()
}

// CountWritten returns the number of entries in the event tree of a ROOT
// output, or -1 when the file or its tree is missing or unreadable.
func CountWritten(path string) int {
	n, err := histio.TreeEntries(path)
	if err != nil {
		return -1
	}
	return int(n)
}

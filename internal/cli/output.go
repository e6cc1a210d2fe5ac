package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// timestampedEvent is the JSON-lines form of a server event
type timestampedEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PrintEvent outputs one server event. JSON mode emits one line per
// event; text mode renders a human-readable line.
func (o *Output) PrintEvent(ev ServerEvent) {
	if o.format == "json" {
		data, _ := json.Marshal(timestampedEvent{
			Time:  time.Now(),
			Event: ev.Event,
			Data:  ev.Data,
		})
		fmt.Println(string(data))
		return
	}

	if line := renderEvent(ev); line != "" {
		fmt.Println(line)
	}
}

package clientcli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter formats results for output.
type Formatter interface {
	FormatGet(w io.Writer, result *GetResult) error
	FormatWakeup(w io.Writer, result *WakeupResult) error
	FormatJournal(w io.Writer, result *JournalResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatGet prints one item per line. Strings are printed bare, null as
// "(missing)", and records as compact JSON.
func (f *HumanFormatter) FormatGet(w io.Writer, result *GetResult) error {
	for _, item := range result.Items {
		_, _ = fmt.Fprintln(w, humanItem(item))
	}
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d item(s) in %q from %s\n", len(result.Items), result.Key, result.Path)
	}
	return nil
}

func humanItem(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "(missing)"
	}

	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}

	var buf bytes.Buffer
	if json.Compact(&buf, trimmed) == nil {
		return buf.String()
	}
	return string(trimmed)
}

// FormatWakeup formats a wakeup result as human-readable text.
func (f *HumanFormatter) FormatWakeup(w io.Writer, result *WakeupResult) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", result.Status, result.Message, result.Latency.Round(time.Millisecond))
	return nil
}

// FormatJournal formats journal entries as a table.
func (f *HumanFormatter) FormatJournal(w io.Writer, result *JournalResult) error {
	if len(result.Items) == 0 {
		_, _ = fmt.Fprintln(w, "No fetches recorded")
		return nil
	}

	maxEndpointLen := 8 // "ENDPOINT"
	for i := range result.Items {
		maxEndpointLen = max(maxEndpointLen, len(result.Items[i].Endpoint))
	}
	maxEndpointLen = min(maxEndpointLen, 30)

	_, _ = fmt.Fprintf(w, "%-19s  %-*s  %-13s  %6s  %8s\n", "TIME", maxEndpointLen, "ENDPOINT", "OUTCOME", "ROWS", "DURATION")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", 19), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 13), strings.Repeat("-", 6), strings.Repeat("-", 8))

	failed := 0
	for i := range result.Items {
		e := &result.Items[i]
		endpoint := e.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}
		if e.Failed() {
			failed++
		}
		_, _ = fmt.Fprintf(w, "%-19s  %-*s  %-13s  %6d  %6dms\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			maxEndpointLen,
			endpoint,
			e.Outcome,
			e.Rows,
			e.DurationMS,
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d fetch(es), %d failed\n", len(result.Items), failed)
	}

	if result.NextCursor != "" {
		_, _ = fmt.Fprintf(w, "Next page: use --cursor %q\n", result.NextCursor)
	}

	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats profiles as a table with the default marked "*".
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4 // "NAME"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
	}
	maxNameLen = min(maxNameLen, 20)

	_, _ = fmt.Fprintf(w, "  %-*s  %s\n", maxNameLen, "NAME", "ENDPOINT")
	_, _ = fmt.Fprintf(w, "  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 8))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %s\n", marker, maxNameLen, name, p.Endpoint)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	if profile.Timeout > 0 {
		_, _ = fmt.Fprintf(w, "Timeout:  %s\n", profile.Timeout)
	}
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatGet re-wraps the items in their envelope key, matching the server body.
func (f *JSONFormatter) FormatGet(w io.Writer, result *GetResult) error {
	return writeJSON(w, map[string][]json.RawMessage{result.Key: result.Items})
}

// FormatWakeup formats a wakeup result as JSON.
func (f *JSONFormatter) FormatWakeup(w io.Writer, result *WakeupResult) error {
	output := struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		LatencyMS int64  `json:"latency_ms"`
	}{
		Status:    result.Status,
		Message:   result.Message,
		LatencyMS: result.Latency.Milliseconds(),
	}
	return writeJSON(w, output)
}

// FormatJournal formats journal entries as JSON.
func (f *JSONFormatter) FormatJournal(w io.Writer, result *JournalResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Timeout  string `json:"timeout,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = jsonProfile{
			Name:     profiles[i].Name,
			Endpoint: profiles[i].Endpoint,
			Timeout:  durationString(profiles[i].Timeout),
			Default:  profiles[i].Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Timeout  string `json:"timeout,omitempty"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Timeout:  durationString(profile.Timeout),
		Default:  isDefault,
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func durationString(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}

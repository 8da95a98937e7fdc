package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev rcrelay.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as JSON Lines format.
func OutputJSON(ev rcrelay.Event, out io.Writer) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes an event in human-readable format.
func OutputPretty(ev rcrelay.Event, out io.Writer) error {
	_, err := fmt.Fprintln(out, FormatPretty(ev))
	return err
}

// FormatPretty renders an event on one line:
//
//	[wiki] user type (logtype/action): key=value ...
func FormatPretty(ev rcrelay.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", ev.Wiki, quoteIfNeeded(ev.User), ev.Type)
	if ev.Category == event.CategoryLog {
		fmt.Fprintf(&b, " (%s/%s)", ev.LogType, ev.Action)
	}

	switch {
	case ev.DegradedSource:
		b.WriteString(" degraded")
	case !ev.Recognized:
		b.WriteString(" unrecognized")
		if ev.Summary != "" {
			b.WriteString(": summary=")
			b.WriteString(quoteIfNeeded(ev.Summary))
		}
	default:
		if fields := detailFields(ev.Details); len(fields) > 0 {
			b.WriteString(": ")
			b.WriteString(formatData(fields))
		}
	}
	return b.String()
}

// detailFields flattens a details payload into its JSON field names and
// scalar renderings. Empty values are left out.
func detailFields(d event.Details) map[string]string {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := renderValue(v); s != "" {
			fields[k] = s
		}
	}
	return fields
}

func renderValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return compactJSON(v)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ",")
	default:
		s := compactJSON(v)
		if s == "{}" {
			return ""
		}
		return s
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// formatData formats a map as sorted key=value pairs.
func formatData(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quoteIfNeeded(data[k]))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value containing spaces, equals signs, quotes,
// backslashes or control characters. Feed text carries IRC color codes,
// which end up escaped as \xNN.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsFunc(v, needsQuote) {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func needsQuote(c rune) bool {
	return c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F
}

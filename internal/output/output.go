package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles the Printer renders with. Every field is a
// lipgloss style; a plain palette renders text unchanged.
type palette struct {
	err    lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	header lipgloss.Style
	hash   lipgloss.Style
	when   lipgloss.Style
	branch lipgloss.Style
	key    lipgloss.Style
}

func newPalette(colored bool) palette {
	plain := lipgloss.NewStyle()
	if !colored {
		return palette{
			err: plain, ok: plain, warn: plain, header: plain,
			hash: plain, when: plain, branch: plain, key: plain,
		}
	}
	return palette{
		err:    plain.Foreground(lipgloss.Color("9")).Bold(true),
		ok:     plain.Foreground(lipgloss.Color("10")),
		warn:   plain.Foreground(lipgloss.Color("11")),
		header: plain.Bold(true).Underline(true),
		hash:   plain.Foreground(lipgloss.Color("11")),
		when:   plain.Faint(true),
		branch: plain.Foreground(lipgloss.Color("13")),
		key:    plain.Foreground(lipgloss.Color("14")),
	}
}

// Printer writes command results either as JSON documents or as styled
// text. In JSON mode stdout carries exactly one document per command, so
// warnings go to the error writer.
type Printer struct {
	w       io.Writer
	errW    io.Writer
	json    bool
	colored bool
	style   palette
}

// NewPrinter returns a Printer writing to w. Colors are used only in human
// mode and only when colored is true.
func NewPrinter(w io.Writer, jsonMode bool, colored bool) *Printer {
	return &Printer{
		w:       w,
		errW:    w,
		json:    jsonMode,
		colored: colored,
		style:   newPalette(colored && !jsonMode),
	}
}

// WithStderr routes human-mode errors and all warnings to w.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON reports whether the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// Colored reports whether human output is styled.
func (p *Printer) Colored() bool {
	return p.colored
}

// Success reports a completed command. JSON mode writes data as one
// object. Human mode prints the "message" entry when present, otherwise
// every entry as "key: value" in key order.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.WriteJSON(data)
	}
	if msg, ok := data["message"].(string); ok {
		mustWrite(fmt.Fprintln(p.w, p.style.ok.Render(msg)))
		return nil
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		mustWrite(fmt.Fprintf(p.w, "%s %v\n", p.style.key.Render(key+":"), data[key]))
	}
	return nil
}

// Error reports err after classifying it with FromError. JSON mode writes
// {"error": "...", "code": N} to the main writer.
func (p *Printer) Error(err error) {
	exitErr := FromError(err)
	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.style.err.Render("Error"), exitErr.Message))
}

// Warn reports a problem that did not stop the command.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		data, _ := json.Marshal(map[string]string{"warning": msg})
		mustWrite(fmt.Fprintf(p.errW, "%s\n", data))
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.style.warn.Render("Warning"), msg))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// WriteJSON writes data as one indented JSON document.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns {"error": message, "code": code}.
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{"error": message, "code": code})
	return result
}

// mustWrite panics when writing to the terminal or a buffer fails, which
// leaves no channel to report anything on.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Table prints rows under a header line, columns separated by two spaces
// and padded to the widest cell. Widths ignore ANSI styling.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	p.tableLine(headers, widths, true)
	for _, row := range rows {
		p.tableLine(row, widths, false)
	}
}

func (p *Printer) tableLine(cells []string, widths []int, header bool) {
	var b strings.Builder
	for i := range min(len(cells), len(widths)) {
		if i > 0 {
			b.WriteString("  ")
		}
		cell := cells[i]
		if header {
			cell = p.style.header.Render(cell)
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cells[i])))
	}
	mustWrite(fmt.Fprintln(p.w, b.String()))
}

// Event prints one timeline line: key, local time, author and text, with
// a leading "[branch, ...]" decoration highlighted.
func (p *Printer) Event(key string, when time.Time, author, text string) {
	if strings.HasPrefix(text, "[") {
		if end := strings.Index(text, "] "); end > 0 {
			text = p.style.branch.Render(text[:end+1]) + text[end+1:]
		}
	}
	mustWrite(fmt.Fprintf(p.w, "%s  %s  %s  %s\n",
		p.style.hash.Render(key),
		p.style.when.Render(when.Local().Format("2006-01-02 15:04")),
		author,
		text,
	))
}

// Package console implements a line-oriented seeding operator for terminals.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/louisbranch/worldseed/internal/seeding"
)

// ErrClosed is returned when input ends before an answer is given.
var ErrClosed = errors.New("console input closed")

// Styles renders operator output. Colors are dropped when the writer is
// not a terminal.
type Styles struct {
	Seeder  lipgloss.Style
	Prompt  lipgloss.Style
	Problem lipgloss.Style
	Info    lipgloss.Style
	Applied lipgloss.Style
	Skipped lipgloss.Style
	Blocked lipgloss.Style
	Failed  lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Seeder:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		Prompt:  r.NewStyle().Bold(true),
		Problem: r.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Applied: r.NewStyle().Foreground(lipgloss.Color("10")),
		Skipped: r.NewStyle().Foreground(lipgloss.Color("11")),
		Blocked: r.NewStyle().Foreground(lipgloss.Color("208")),
		Failed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Operator asks questions on in and writes prompts and notices to out.
type Operator struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	styles Styles
}

// New returns an operator reading answers line by line from in.
func New(in io.Reader, out io.Writer) *Operator {
	return &Operator{
		in:     bufio.NewReader(in),
		out:    out,
		styles: NewStyles(out),
	}
}

// Ask prints the prompt, and the previous problem when re-asking, then
// reads one line.
func (o *Operator) Ask(ctx context.Context, prompt seeding.Prompt) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt.Problem != "" {
		fmt.Fprintf(o.out, "  %s\n", o.styles.Problem.Render("! "+prompt.Problem))
	}
	fmt.Fprintf(o.out, "%s %s\n> ", o.styles.Seeder.Render("["+prompt.Seeder+"]"), o.styles.Prompt.Render(prompt.Text))

	line, err := o.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(o.out)
			return "", ErrClosed
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Report prints a notice styled by kind.
func (o *Operator) Report(_ context.Context, notice seeding.Notice) {
	o.mu.Lock()
	defer o.mu.Unlock()

	style := o.styles.Info
	switch notice.Kind {
	case seeding.NoticeApplied:
		style = o.styles.Applied
	case seeding.NoticeSkipped:
		style = o.styles.Skipped
	case seeding.NoticeBlocked:
		style = o.styles.Blocked
	case seeding.NoticeFailed:
		style = o.styles.Failed
	}
	fmt.Fprintf(o.out, "%s %s\n", o.styles.Seeder.Render("["+notice.Seeder+"]"), style.Render(notice.Text))
}

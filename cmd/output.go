package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/config"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// output writes command results in the format the flags ask for.
type output struct {
	w        io.Writer
	field    string
	markdown bool
	quiet    bool
	currency string
	width    int
	style    string // glamour style; empty picks from the terminal
}

func newOutput(cmd *cobra.Command, cfg config.Config) output {
	o := output{
		w:        cmd.OutOrStdout(),
		field:    flagField,
		markdown: cfg.Display.Markdown,
		quiet:    flagQuiet,
		currency: cfg.Display.Currency,
		width:    80,
	}
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		o.style = "notty"
	} else if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		o.width = w
	}
	return o
}

// payload prints an opaque response: one JSONPath value with --field,
// a markdown code block with --markdown, indented JSON otherwise.
func (o output) payload(title string, p backend.Payload) error {
	if o.field != "" {
		return o.lookup(p)
	}
	if o.markdown {
		return o.md(fmt.Sprintf("## %s\n\n```json\n%s\n```\n", title, cli.JSON(p)))
	}
	o.title(title)
	fmt.Fprintln(o.w, cli.JSON(p))
	return nil
}

// value prints v through the same field/markdown rules as payload.
func (o output) value(title string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", title, err)
	}
	return o.payload(title, backend.Payload(raw))
}

func (o output) lookup(p backend.Payload) error {
	v, err := p.Lookup(o.field)
	if err != nil {
		return err
	}
	fmt.Fprintln(o.w, cli.FormatValue(v))
	return nil
}

func (o output) md(doc string) error {
	out, err := cli.Markdown(doc, o.width, o.style)
	if err != nil {
		return err
	}
	fmt.Fprint(o.w, out)
	return nil
}

func (o output) title(title string) {
	if o.quiet {
		return
	}
	fmt.Fprintln(o.w, cli.RenderTitle(title))
	fmt.Fprintln(o.w)
}

func (o output) lines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(o.w, strings.TrimRight(l, " "))
	}
}

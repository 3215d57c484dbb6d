package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"ownership/internal/diag"
)

// Pretty writes diagnostics in reading order. Call bag.Sort() first when the
// order should follow sites rather than insertion. For each entry it prints
//
//	ERROR OWN3101: use of moved value 's'
//	  --> SCOPE 2#4 (s)
//	   = note: SCOPE 2#2 (s): value moved into 't' here
//	   = help: clone the buffer instead of moving it
//	       own.Let(sc, "t", sv.Clone())
//
// followed by a blank line. Colour is applied only when opts.Color is set.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(w, opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	var sb strings.Builder
	for i := range items {
		d := &items[i]
		sb.WriteString(p.severity(d.Severity))
		sb.WriteByte(' ')
		sb.WriteString(p.paint(p.code, d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteByte('\n')

		sb.WriteString(p.paint(p.gutter, "  -->"))
		sb.WriteByte(' ')
		sb.WriteString(d.Primary.String())
		sb.WriteByte('\n')

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&sb, "%s %s: %s: %s\n", p.paint(p.gutter, "   ="), p.paint(p.note, "note"), n.Site.String(), n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(&sb, "%s %s: %s\n", p.paint(p.gutter, "   ="), p.paint(p.help, "help"), f.Title)
				for _, line := range strings.Split(f.Replacement, "\n") {
					if line == "" {
						continue
					}
					sb.WriteString("       ")
					sb.WriteString(line)
					sb.WriteByte('\n')
				}
			}
		}
		sb.WriteByte('\n')
	}

	if len(items) < bag.Len() {
		fmt.Fprintf(&sb, "... %d more not shown\n", bag.Len()-len(items))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type palette struct {
	errorC  *color.Color
	warnC   *color.Color
	infoC   *color.Color
	code    lipgloss.Style
	gutter  lipgloss.Style
	note    lipgloss.Style
	help    lipgloss.Style
	enabled bool
}

func newPalette(w io.Writer, enabled bool) *palette {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	p := &palette{
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		infoC:   color.New(color.FgCyan, color.Bold),
		code:    r.NewStyle().Bold(true),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("4")),
		note:    r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		help:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		enabled: enabled,
	}
	for _, c := range []*color.Color{p.errorC, p.warnC, p.infoC} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) severity(sev diag.Severity) string {
	label := sev.String()
	switch sev {
	case diag.SevError:
		return p.errorC.Sprint(label)
	case diag.SevWarning:
		return p.warnC.Sprint(label)
	default:
		return p.infoC.Sprint(label)
	}
}

// paint applies st only when colour is on; plain output never carries escapes.
func (p *palette) paint(st lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return st.Render(text)
}

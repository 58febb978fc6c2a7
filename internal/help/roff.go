// Package help renders roff man pages from the lv command tree.
package help

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// Page is one man page: a command and the names leading to it from the root.
type Page struct {
	Path []string // e.g. ["lv", "index", "rebuild"]
	Cmd  *cli.Command
}

// ManName returns the page name, e.g. "lv-index-rebuild".
func (p Page) ManName() string {
	return strings.Join(p.Path, "-")
}

// Pages walks root depth-first and returns one page per visible command,
// root first. The built-in help command is skipped.
func Pages(root *cli.Command) []Page {
	var pages []Page
	var walk func(c *cli.Command, path []string)
	walk = func(c *cli.Command, path []string) {
		pages = append(pages, Page{Path: path, Cmd: c})
		for _, sub := range c.Commands {
			if sub.Hidden || sub.Name == "help" {
				continue
			}
			walk(sub, append(append([]string{}, path...), sub.Name))
		}
	}
	walk(root, []string{root.Name})
	return pages
}

// FormatRoff renders a page as a roff-formatted man page (.1).
// If date is empty, today's date is used (pass a fixed date for reproducible builds).
func FormatRoff(p Page, version, date string) string {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	c := p.Cmd
	top := len(p.Path) == 1

	var b strings.Builder

	fmt.Fprintf(&b, ".TH %s 1 %q %q %q\n",
		strings.ToUpper(p.ManName()), date, p.Path[0]+" "+version, "LogVault Manual")

	b.WriteString(".SH NAME\n")
	fmt.Fprintf(&b, "%s \\- %s\n", escapeRoff(p.ManName()), escapeRoff(c.Usage))

	b.WriteString(".SH SYNOPSIS\n")
	b.WriteString(".B " + escapeRoff(strings.Join(p.Path, " ")) + "\n")
	if len(c.Commands) > 0 {
		b.WriteString(".I command\n")
	}
	if len(c.Flags) > 0 {
		b.WriteString(".RI [ options ]\n")
	}
	if c.ArgsUsage != "" {
		b.WriteString(".I " + escapeRoff(c.ArgsUsage) + "\n")
	}

	if c.Description != "" {
		b.WriteString(".SH DESCRIPTION\n")
		writeRoffParagraphs(&b, c.Description)
	}

	if subs := visible(c.Commands); len(subs) > 0 {
		b.WriteString(".SH COMMANDS\n")
		for _, s := range subs {
			fmt.Fprintf(&b, ".TP\n.B %s\n%s\n", escapeRoff(s.Name), escapeRoff(s.Usage))
		}
	}

	if len(c.Flags) > 0 {
		b.WriteString(".SH OPTIONS\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, ".TP\n.B %s\n%s\n", escapeRoff(flagNames(f)), escapeRoff(flagUsage(f)))
		}
	}

	if top {
		b.WriteString(".SH CONFIGURATION\n")
		b.WriteString("Configuration file: ~/.config/logvault/config.toml\n")
	}

	b.WriteString(".SH SEE ALSO\n")
	var refs []string
	if top {
		for _, s := range visible(c.Commands) {
			refs = append(refs, formatManRef(p.ManName()+"-"+s.Name+"(1)"))
		}
	} else {
		refs = append(refs, formatManRef(p.Path[0]+"(1)"))
	}
	b.WriteString(strings.Join(refs, ",\n") + "\n")

	return b.String()
}

func visible(cmds []*cli.Command) []*cli.Command {
	var out []*cli.Command
	for _, c := range cmds {
		if !c.Hidden && c.Name != "help" {
			out = append(out, c)
		}
	}
	return out
}

// flagNames renders "--root, -r" style names.
func flagNames(f cli.Flag) string {
	names := f.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		if len(n) == 1 {
			parts[i] = "-" + n
		} else {
			parts[i] = "--" + n
		}
	}
	return strings.Join(parts, ", ")
}

// flagUsage returns the flag usage plus any environment variables it reads.
func flagUsage(f cli.Flag) string {
	var usage string
	if u, ok := f.(interface{ GetUsage() string }); ok {
		usage = u.GetUsage()
	}
	if e, ok := f.(interface{ GetEnvVars() []string }); ok {
		if vars := e.GetEnvVars(); len(vars) > 0 {
			usage += " (env: " + strings.Join(vars, ", ") + ")"
		}
	}
	return strings.TrimSpace(usage)
}

// escapeRoff escapes characters that have special meaning in roff:
// backslashes, leading dots, and bare hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	s = strings.ReplaceAll(s, "-", "\\-")
	return s
}

// writeRoffParagraphs writes multi-line description text as roff paragraphs.
// Blank lines in the input become .PP paragraph breaks.
func writeRoffParagraphs(b *strings.Builder, text string) {
	prevBlank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteString(escapeRoff(line) + "\n")
	}
}

// formatManRef formats a "name(section)" reference with bold name.
func formatManRef(ref string) string {
	// "lv-file(1)" → ".BR lv\-file (1)"
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}

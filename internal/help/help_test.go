package help

import (
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

func testTree() *cli.Command {
	return &cli.Command{
		Name:  "lv",
		Usage: "file pasted logs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "archive root", Sources: cli.EnvVars("LOGVAULT_ROOT")},
		},
		Commands: []*cli.Command{
			{
				Name:        "file",
				Usage:       "classify and file one log",
				ArgsUsage:   "[path|-]",
				Description: "Reads the log.\n\nFalls back on failure.",
				Flags:       []cli.Flag{&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "log text"}},
			},
			{
				Name:  "index",
				Usage: "maintain the index",
				Commands: []*cli.Command{
					{Name: "rebuild", Usage: "rescan the root"},
				},
			},
			{Name: "secret", Usage: "hidden", Hidden: true},
		},
	}
}

func TestPages(t *testing.T) {
	pages := Pages(testTree())

	var names []string
	for _, p := range pages {
		names = append(names, p.ManName())
	}
	want := []string{"lv", "lv-file", "lv-index", "lv-index-rebuild"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("pages = %v, want %v", names, want)
	}
}

func TestFormatRoff_TopLevel(t *testing.T) {
	out := FormatRoff(Pages(testTree())[0], "1.0.0", "2025-01-01")

	for _, want := range []string{
		`.TH LV 1 "2025-01-01" "lv 1.0.0" "LogVault Manual"`,
		".SH NAME\nlv \\- file pasted logs\n",
		".SH COMMANDS\n",
		".B file\nclassify and file one log\n",
		".B \\-\\-root, \\-r\narchive root (env: LOGVAULT_ROOT)\n",
		".SH CONFIGURATION\n",
		".BR lv\\-file (1)",
		".BR lv\\-index (1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Error("hidden command should not be listed")
	}
}

func TestFormatRoff_Subcommand(t *testing.T) {
	out := FormatRoff(Pages(testTree())[1], "1.0.0", "2025-01-01")

	for _, want := range []string{
		`.TH LV-FILE 1`,
		".SH SYNOPSIS\n.B lv file\n.RI [ options ]\n.I [path|\\-]\n",
		".SH DESCRIPTION\nReads the log.\n.PP\nFalls back on failure.\n",
		".B \\-\\-text, \\-t\nlog text\n",
		".SH SEE ALSO\n.BR lv (1)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "CONFIGURATION") {
		t.Error("subcommand page should not carry CONFIGURATION")
	}
}

func TestFormatRoff_DefaultDate(t *testing.T) {
	out := FormatRoff(Pages(testTree())[0], "dev", "")
	if !strings.HasPrefix(out, ".TH LV 1 \"20") {
		t.Errorf("header = %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestEscapeRoff(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"--flag", `\-\-flag`},
		{`back\slash`, `back\\slash`},
		{".leading", `\&.leading`},
		{"a\n.b", "a\n\\&.b"},
	}
	for _, tt := range tests {
		if got := escapeRoff(tt.in); got != tt.want {
			t.Errorf("escapeRoff(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatManRef(t *testing.T) {
	if got := formatManRef("lv-file(1)"); got != `.BR lv\-file (1)` {
		t.Errorf("formatManRef = %q", got)
	}
	if got := formatManRef("lv"); got != ".B lv" {
		t.Errorf("formatManRef bare = %q", got)
	}
}

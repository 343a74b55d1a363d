package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/formatters"
	htmldom "github.com/dpotapov/go-htmldom"
	"github.com/dpotapov/go-htmldom/shtml"
	"github.com/dpotapov/go-htmldom/shtml/dump"
)

// contextRadius is the number of source lines printed around a parse failure.
const contextRadius = 2

// colorStyle is the chroma style used with -color.
const colorStyle = "monokai"

type config struct {
	format   dump.Format
	query    *shtml.Query
	maxDepth int
	color    bool
	logger   *slog.Logger
}

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: htmldom [flags] [files...]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Parses each file (stdin without arguments) and prints its tree.")
		_, _ = fmt.Fprintln(os.Stderr, "With -serve, starts an HTTP server that parses documents under -root instead.")
		flag.PrintDefaults()
	}
	formatFlag := flag.String("format", string(dump.FormatTree), "output format: tree, html, xml or json")
	queryFlag := flag.String("q", "", `print only nodes matching the query, e.g. tag == "a" && "href" in attrs`)
	maxDepthFlag := flag.Int("max-depth", 0, "maximum element nesting, 0 for the parser default")
	colorFlag := flag.Bool("color", false, "highlight the output for a 256-color terminal")
	verboseFlag := flag.Bool("v", false, "log debug messages")
	serveFlag := flag.String("serve", "", "listen address of the inspection server, e.g. :8080")
	rootFlag := flag.String("root", ".", "directory served with -serve")
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	format, err := dump.ParseFormat(*formatFlag)
	if err != nil {
		fatal(err)
	}

	if *serveFlag != "" {
		h := &htmldom.Handler{
			FileSystem: os.DirFS(*rootFlag),
			Format:     format,
			MaxDepth:   *maxDepthFlag,
			Logger:     logger,
		}
		logger.Info("Starting HTTP server", "address", *serveFlag, "root", *rootFlag)
		fatal(http.ListenAndServe(*serveFlag, h))
	}

	cfg := config{format: format, maxDepth: *maxDepthFlag, color: *colorFlag, logger: logger}
	if *queryFlag != "" {
		if cfg.query, err = shtml.CompileQuery(*queryFlag); err != nil {
			fatal(err)
		}
	}

	if err := run(cfg, flag.Args(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// run prints the dump of every named file, or of stdin when files is empty. Parse failures are
// described on stderr; the joined errors are returned after all files are processed.
func run(cfg config, files []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(files) == 0 {
		return process(cfg, "", stdin, stdout, stderr)
	}

	var allErr error
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			allErr = errors.Join(allErr, err)
			continue
		}
		err = process(cfg, name, f, stdout, stderr)
		_ = f.Close()
		if err != nil {
			allErr = errors.Join(allErr, err)
		}
	}
	return allErr
}

func process(cfg config, name string, r io.Reader, stdout, stderr io.Writer) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	cfg.logger.Debug("Parse document", "file", name, "bytes", len(src))

	root, err := shtml.Parse(string(src), &shtml.Options{
		File:        name,
		Diagnostics: shtml.NewLogDiagnostics(cfg.logger),
		MaxDepth:    cfg.maxDepth,
	})
	var pe *shtml.ParseError
	if errors.As(err, &pe) {
		printContext(stderr, pe, string(src))
	}
	if err != nil {
		return err
	}

	out := stdout
	var buf bytes.Buffer
	if cfg.color {
		out = &buf
	}

	if cfg.query == nil {
		err = dump.Write(out, cfg.format, root)
	} else {
		var nodes []shtml.Node
		if nodes, err = cfg.query.FindAll(root); err != nil {
			return err
		}
		err = dump.WriteAll(out, cfg.format, nodes)
	}
	if err != nil || !cfg.color {
		return err
	}
	return dump.Highlight(stdout, cfg.format, buf.String(), formatters.TTY256, colorStyle)
}

// printContext prints the source lines around a parse failure with a marker under the failing
// element.
func printContext(w io.Writer, pe *shtml.ParseError, src string) {
	ctx := pe.SourceContext(src, contextRadius)
	if ctx == nil {
		return
	}
	for _, l := range ctx.Lines {
		_, _ = fmt.Fprintf(w, "%5d | %s\n", l.Number, l.Text)
		if l.Number == ctx.ErrorLine {
			_, _ = fmt.Fprintf(w, "      | %s%s\n", strings.Repeat(" ", ctx.ErrorColumn-1), marker(l.Text, ctx))
		}
	}
}

// marker underlines the part of line covered by the error, at least one column wide. Columns and
// the marker are counted in runes, ErrorLength in bytes.
func marker(line string, ctx *shtml.SourceContext) string {
	width := 1
	if runes := []rune(line); ctx.ErrorColumn-1 < len(runes) {
		rest := string(runes[ctx.ErrorColumn-1:])
		if ctx.ErrorLength < len(rest) {
			rest = rest[:ctx.ErrorLength]
		}
		width = max(utf8.RuneCountInString(rest), 1)
	}
	return strings.Repeat("^", width)
}

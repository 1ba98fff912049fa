package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/catalog"
	"github.com/fwojciec/apicat/goquery"
	"github.com/fwojciec/apicat/hbk"
	"github.com/fwojciec/apicat/html"
	"github.com/fwojciec/apicat/htmltomarkdown"
	"github.com/fwojciec/apicat/search"
	catslog "github.com/fwojciec/apicat/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input for the repl command. Set before calling Run().
	Stdin io.Reader

	// Catalog service, available after Run for end-to-end testing.
	Service *catalog.Service
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("apicat"),
		kong.Description("Query the API catalog of a syntax-helper book."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'apicat --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Archive == "" {
		fmt.Fprintln(stderr, "Hint: pass --archive or set APICAT_ARCHIVE to the .hbk file (e.g. shcntx_ru.hbk)")
		return apicat.Errorf(apicat.EINVALID, "archive path required")
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opener := catslog.NewLoggingOpener(hbk.NewOpener(), logger)
	deps.Logger = logger
	deps.Archive = cli.Archive
	deps.Opener = opener
	deps.Extractor = goquery.NewExtractor()
	conv := htmltomarkdown.NewConverter()
	conv.Domain = cli.LinkDomain
	deps.Converter = conv

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd != "toc" && cmd != "page" && cmd != "export" {
		engine, err := search.Strategy(cli.Engine, search.DefaultWeights)
		if err != nil {
			return err
		}
		loader := catalog.NewLoader(opener, catslog.NewLoggingPageParser(html.NewPageParser(), logger))
		loader.Concurrency = cli.Concurrency

		m.Service = catalog.NewService(catalog.NewHolder(), loader, engine)
		if _, err := m.Service.Reload(ctx, cli.Archive); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", apicat.ErrorMessage(err))
			return err
		}
		deps.Catalog = catslog.NewLoggingCatalogService(m.Service, logger)
		deps.Reloader = m.Service
	}

	return kongCtx.Run(deps)
}

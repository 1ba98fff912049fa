package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/fsnotify"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Archive   string
	Opener    apicat.ArchiveOpener
	Extractor apicat.Extractor
	Converter apicat.Converter
	Catalog   apicat.CatalogService
	Reloader  fsnotify.Reloader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Archive     string `short:"a" env:"APICAT_ARCHIVE" help:"Path to the syntax-helper container (.hbk)"`
	Concurrency int    `short:"c" env:"APICAT_CONCURRENCY" default:"0" help:"Parallel page extraction limit (0 uses all CPUs)"`
	Engine      string `short:"e" default:"composite" enum:"composite,intelligent,exact,prefix,fuzzy" help:"Search strategy"`
	LinkDomain  string `env:"APICAT_LINK_DOMAIN" help:"Resolve relative links in rendered pages against this URL"`
	Verbose     bool   `short:"v" help:"Enable debug logging"`

	Stats   StatsCmd   `cmd:"" help:"Show catalog statistics"`
	Search  SearchCmd  `cmd:"" help:"Search the catalog"`
	Show    ShowCmd    `cmd:"" help:"Show one element by exact name"`
	Members MembersCmd `cmd:"" help:"List the members of a type"`
	Ctors   CtorsCmd   `cmd:"" help:"List the constructors of a type"`
	Suggest SuggestCmd `cmd:"" help:"Complete an element name prefix"`
	TOC     TOCCmd     `cmd:"" name:"toc" help:"Print the table of contents"`
	Page    PageCmd    `cmd:"" help:"Render one help page as Markdown"`
	Export  ExportCmd  `cmd:"" help:"Write every help page as Markdown into a directory"`
	Repl    ReplCmd    `cmd:"" help:"Answer queries interactively"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query         string   `arg:"" help:"Search text"`
	Kind          []string `short:"k" help:"Restrict to element kinds: type, method, property, constructor (repeatable)"`
	Limit         int      `short:"n" default:"20" help:"Maximum number of results"`
	Threshold     float64  `short:"t" default:"0.6" help:"Minimum fuzzy similarity (0-1)"`
	Exact         bool     `help:"Only report exact name matches"`
	CaseSensitive bool     `help:"Match letter case"`
	Owner         string   `short:"o" help:"Search the members of this type"`
	Inherited     bool     `short:"i" help:"Include members of base types (with --owner)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Kind string `arg:"" help:"Element kind: type, method, property or constructor"`
	Name string `arg:"" help:"Exact name; members as Type.Member"`
}

// MembersCmd is the "members" subcommand.
type MembersCmd struct {
	Type      string `arg:"" help:"Type name"`
	Inherited bool   `short:"i" help:"Include members of base types"`
}

// CtorsCmd is the "ctors" subcommand.
type CtorsCmd struct {
	Type string `arg:"" help:"Type name"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	Prefix string `arg:"" help:"Name prefix"`
	Kind   string `short:"k" help:"Restrict to one element kind"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of names"`
}

// TOCCmd is the "toc" subcommand.
type TOCCmd struct {
	Depth int `short:"d" default:"0" help:"Maximum depth to print (0 prints all)"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	ID  string `arg:"" help:"Page entry id, e.g. objects/Array.html"`
	Raw bool   `help:"Print the page HTML unchanged"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" help:"Output directory; replaced on success"`
}

// ReplCmd is the "repl" subcommand.
type ReplCmd struct {
	Watch bool `short:"w" help:"Reload the catalog when the archive changes"`
}

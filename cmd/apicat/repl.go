package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/fsnotify"
)

const replHelp = `Commands:
  search <text>            search the catalog
  show <kind> <name>       show one element
  members <type>           list members, including inherited
  ctors <type>             list constructors
  suggest <prefix>         complete a name
  stats                    show catalog statistics
  quit                     leave
`

// Run executes the repl command. Each input line is one query; errors are
// reported and the session continues.
func (c *ReplCmd) Run(deps *Dependencies) error {
	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()

	if c.Watch {
		w, err := fsnotify.NewWatcher(deps.Archive, deps.Reloader, deps.Logger, fsnotify.Options{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot watch %s: %v\n", deps.Archive, err)
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil {
				deps.Logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	sub := *deps
	sub.Ctx = ctx

	scanner := bufio.NewScanner(deps.Stdin)
	fmt.Fprint(deps.Stdout, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if line != "" {
			if err := c.exec(&sub, line); err != nil && apicat.ErrorCode(err) == apicat.EINTERNAL {
				return err
			}
		}
		fmt.Fprint(deps.Stdout, "> ")
	}
	return scanner.Err()
}

// exec runs one line. Command errors are already reported on stderr.
func (c *ReplCmd) exec(deps *Dependencies, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help", "?":
		fmt.Fprint(deps.Stdout, replHelp)
		return nil
	case "stats":
		return (&StatsCmd{}).Run(deps)
	case "search":
		return (&SearchCmd{Query: rest, Limit: 10, Threshold: 0.6}).Run(deps)
	case "show":
		kind, name, _ := strings.Cut(rest, " ")
		return (&ShowCmd{Kind: kind, Name: strings.TrimSpace(name)}).Run(deps)
	case "members":
		return (&MembersCmd{Type: rest, Inherited: true}).Run(deps)
	case "ctors":
		return (&CtorsCmd{Type: rest}).Run(deps)
	case "suggest":
		return (&SuggestCmd{Prefix: rest, Limit: 10}).Run(deps)
	}
	fmt.Fprintf(deps.Stderr, "error: unknown command %q. Type 'help' for a list.\n", cmd)
	return apicat.Errorf(apicat.EINVALID, "unknown command %q", cmd)
}

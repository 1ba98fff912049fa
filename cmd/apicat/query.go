package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/apicat"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	s, err := deps.Catalog.Statistics(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	writeStatistics(deps.Stdout, s)
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	q := apicat.SearchQuery{
		Text:             c.Query,
		Limit:            c.Limit,
		Threshold:        c.Threshold,
		ExactMatch:       c.Exact,
		CaseSensitive:    c.CaseSensitive,
		Owner:            c.Owner,
		IncludeInherited: c.Inherited,
	}
	for _, k := range c.Kind {
		kind, err := apicat.ParseElementKind(k)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
			return err
		}
		q.Kinds = append(q.Kinds, kind)
	}

	items, err := deps.Catalog.Search(deps.Ctx, q)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if len(items) == 0 {
		fmt.Fprintf(deps.Stdout, "No matches for %q.\n", c.Query)
		return nil
	}
	writeResults(deps.Stdout, items)
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	kind, err := apicat.ParseElementKind(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	e, err := deps.Catalog.FindByExactName(deps.Ctx, kind, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if e == nil {
		fmt.Fprintf(deps.Stderr, "error: %s %q not found. Use 'apicat search' to find similar names.\n", kind, c.Name)
		return apicat.Errorf(apicat.ENOTFOUND, "%s %q not found", kind, c.Name)
	}
	fmt.Fprint(deps.Stdout, formatElement(e))
	return nil
}

// Run executes the members command.
func (c *MembersCmd) Run(deps *Dependencies) error {
	members, err := deps.Catalog.FindMembers(deps.Ctx, c.Type, c.Inherited)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if len(members) == 0 {
		fmt.Fprintf(deps.Stdout, "Type %s has no members.\n", c.Type)
		return nil
	}
	writeElementList(deps.Stdout, members)
	return nil
}

// Run executes the ctors command.
func (c *CtorsCmd) Run(deps *Dependencies) error {
	sigs, err := deps.Catalog.FindConstructors(deps.Ctx, c.Type)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	if len(sigs) == 0 {
		fmt.Fprintf(deps.Stdout, "Type %s has no constructors.\n", c.Type)
		return nil
	}
	for _, sig := range sigs {
		var b strings.Builder
		writeSignature(&b, sig)
		fmt.Fprintf(deps.Stdout, "%s:%s", sig.Name, b.String())
	}
	return nil
}

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	var kind apicat.ElementKind
	if c.Kind != "" {
		k, err := apicat.ParseElementKind(c.Kind)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
			return err
		}
		kind = k
	}
	elements, err := deps.Catalog.Suggest(deps.Ctx, kind, c.Prefix, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apicat.ErrorMessage(err))
		return err
	}
	writeElementList(deps.Stdout, elements)
	return nil
}

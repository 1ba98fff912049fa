package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/apicat"
)

// displayName returns the qualified name with the English alias, if any.
func displayName(e apicat.Element) string {
	b := e.Base()
	name := apicat.QualifiedName(b.Owner, b.Name)
	if b.EnglishName != "" && b.EnglishName != b.Name {
		name += " (" + b.EnglishName + ")"
	}
	return name
}

func writeResults(w io.Writer, items []apicat.SearchResultItem) {
	for i, it := range items {
		reason := ""
		if it.Reason != nil {
			reason = it.Reason.String()
		}
		fmt.Fprintf(w, "%d. %s [%s] %.2f %s\n", i+1, displayName(it.Element), it.Element.Kind(), it.Score, reason)
		if it.Snippet != "" {
			fmt.Fprintf(w, "   %s\n", it.Snippet)
		}
	}
}

func writeElementList(w io.Writer, elements []apicat.Element) {
	for _, e := range elements {
		fmt.Fprintf(w, "%-12s %s\n", e.Kind(), displayName(e))
	}
}

// formatElement renders one element with its details as plain text.
func formatElement(e apicat.Element) string {
	var b strings.Builder
	base := e.Base()
	fmt.Fprintf(&b, "%s [%s]\n", displayName(e), e.Kind())

	switch e := e.(type) {
	case *apicat.Type:
		if e.Enum {
			b.WriteString("enum\n")
		}
		if len(e.BaseTypes) > 0 {
			fmt.Fprintf(&b, "base types: %s\n", strings.Join(e.BaseTypes, ", "))
		}
		writeDescription(&b, base.Description)
		fmt.Fprintf(&b, "\nmethods: %d, properties: %d, constructors: %d\n", len(e.Methods), len(e.Properties), len(e.Constructors))
		writeExample(&b, e.Example)
	case *apicat.Method:
		if e.ReturnType != "" {
			fmt.Fprintf(&b, "returns: %s", e.ReturnType)
			if e.ReturnDescription != "" {
				fmt.Fprintf(&b, " - %s", e.ReturnDescription)
			}
			b.WriteString("\n")
		}
		writeDescription(&b, base.Description)
		for _, sig := range e.Signatures {
			writeSignature(&b, sig)
		}
		writeExample(&b, e.Example)
	case *apicat.Property:
		if e.Type != "" {
			fmt.Fprintf(&b, "type: %s\n", e.Type)
		}
		if e.ReadOnly {
			b.WriteString("read-only\n")
		}
		writeDescription(&b, base.Description)
	case *apicat.Constructor:
		writeDescription(&b, base.Description)
		writeSignature(&b, e.Signature)
	}
	return b.String()
}

func writeDescription(b *strings.Builder, text string) {
	if text != "" {
		b.WriteString("\n" + text + "\n")
	}
}

func writeExample(b *strings.Builder, text string) {
	if text != "" {
		b.WriteString("\nExample:\n" + text + "\n")
	}
}

func writeSignature(b *strings.Builder, sig apicat.Signature) {
	syntax := sig.Syntax
	if syntax == "" {
		syntax = sig.Name + "()"
	}
	fmt.Fprintf(b, "\n  %s\n", syntax)
	for _, p := range sig.Parameters {
		b.WriteString("    " + formatParameter(p) + "\n")
	}
}

func formatParameter(p apicat.Parameter) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Type != "" {
		b.WriteString(": " + p.Type)
	}
	var notes []string
	if p.Optional {
		notes = append(notes, "optional")
	}
	if p.Default != nil {
		notes = append(notes, "default "+*p.Default)
	}
	if len(notes) > 0 {
		b.WriteString(" (" + strings.Join(notes, ", ") + ")")
	}
	if p.Description != "" {
		b.WriteString(" - " + p.Description)
	}
	return b.String()
}

func writeStatistics(w io.Writer, s *apicat.Statistics) {
	fmt.Fprintf(w, "generation:   %s\n", s.Generation)
	fmt.Fprintf(w, "fingerprint:  %s\n", s.Fingerprint)
	fmt.Fprintf(w, "loaded at:    %s\n", s.LoadedAt.Format("2006-01-02 15:04:05"))
	for _, kind := range apicat.ElementKinds {
		fmt.Fprintf(w, "%-13s %d\n", string(kind)+":", s.ByKind[kind])
	}
	fmt.Fprintf(w, "by source:    global %d, type %d, member %d\n",
		s.BySource[apicat.SourceGlobal], s.BySource[apicat.SourceType], s.BySource[apicat.SourceMember])
	fmt.Fprintf(w, "toc nodes:    %d\n", s.TOCNodes)
	fmt.Fprintf(w, "pages:        %d (parsed %d, skipped %d)\n", s.Pages, s.Parsed, s.Skipped)
	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "\nfailures:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  %s: %s: %s\n", f.PageID, f.Code, f.Message)
		}
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintln(w, "\nwarnings:")
		for _, msg := range s.Warnings {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}
}

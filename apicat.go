// Package apicat builds a searchable API catalog from a compressed
// syntax-helper documentation container. It decodes the container and its
// table of contents, extracts typed records from every help page, assembles
// them into a type hierarchy, and answers exact and fuzzy queries over the
// result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., hbk/, html/, catalog/).
package apicat

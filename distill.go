// Package distill provides a browser-backed web scraping service that
// reduces fetched pages to their meaningful content. The core is a DOM
// simplification algorithm: it collapses an HTML tree into a minimal
// structure of text runs and preserved hyperlinks, discarding layout
// scaffolding, empty wrappers, and scripting artifacts.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, nethtml/, sqlite/).
package distill

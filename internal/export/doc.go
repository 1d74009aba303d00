// Package export writes curves and diagrams as SVG, CSV and JSON.
//
// Every writer targets an io.Writer so the same code serves files, stdout
// and HTTP responses. WriteFile wraps any of them for a path on disk.
package export

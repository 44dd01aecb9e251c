// Package report renders treatment plans as downloadable documents.
package report

import (
	"io"

	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// Writer renders a treatment plan to a configured destination.
type Writer interface {
	// Write outputs the plan report for the given variant.
	// Returns the number of bytes written and any error encountered.
	Write(plan entities.Plan, variant entities.Variant) (int, error)
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

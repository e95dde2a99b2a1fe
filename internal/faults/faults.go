package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for failure classification. Callers tag errors with one
// of these via Wrap and branch with errors.Is at the reporting boundary.
var (
	// ErrMoveFailed marks a failed file relocation; non-fatal, the watch
	// loop keeps running and the source file stays in place.
	ErrMoveFailed = errors.New("move failed")
	// ErrDirectoryCreate marks a category directory that could not be
	// created; fatal for the organize call that needed it.
	ErrDirectoryCreate = errors.New("directory create failed")
	// ErrMissingRoot marks work arriving before a watch root is configured.
	ErrMissingRoot = errors.New("watch root not configured")
	// ErrConfiguration marks invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks failures worth retrying by hand.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message carrying component context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}

// Package cli provides CLI output utilities for Charla.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmorante/charla/internal/storage"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --format flag value, defaulting to text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return OutputText, fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WritePost writes a single post to w in the given format.
func WritePost(w io.Writer, post *storage.Post, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(post)
	}
	writePostText(w, post)
	return nil
}

// WritePosts writes a post list to w in the given format.
func WritePosts(w io.Writer, posts []*storage.Post, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts stored.")
		return nil
	}
	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		writePostText(w, p)
	}
	return nil
}

func writePostText(w io.Writer, post *storage.Post) {
	status := "draft"
	if post.Published {
		status = "published"
		if post.FacebookID != "" {
			status = "published (" + post.FacebookID + ")"
		}
	}
	fmt.Fprintf(w, "[%s] %s  %s\n", post.ID, post.CreatedAt.Format("2006-01-02 15:04"), status)
	fmt.Fprintln(w, post.Text)
}

// Fatalf prints an error to stderr and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

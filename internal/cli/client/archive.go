package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ArchiveFile is file metadata returned by the archive endpoints.
type ArchiveFile struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Bytes        int64  `json:"bytes"`
	ContentType  string `json:"content_type,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ArchiveFileList struct {
	Items   []ArchiveFile `json:"items"`
	HasMore bool          `json:"has_more"`
	LastID  string        `json:"last_id,omitempty"`
}

type ArchiveDocument struct {
	File        ArchiveFile     `json:"file"`
	ContentKind string          `json:"content_kind"`
	Content     json.RawMessage `json:"content"`
}

// ArchiveCmd groups the read-only document archive commands.
func ArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse the document archive",
	}

	cmd.AddCommand(archiveListCmd())
	cmd.AddCommand(archiveCatCmd())

	return cmd
}

func archiveListCmd() *cobra.Command {
	var (
		collection string
		limit      int
		after      string
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List files in a collection",
		Long:    "Lists files in the server's default collection, or the one given with --collection.",
		Aliases: []string{"list"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			query := url.Values{}
			if collection != "" {
				query.Set("collection", collection)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			if after != "" {
				query.Set("after", after)
			}

			path := "/vector"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			var list ArchiveFileList
			if err := json.Unmarshal(resp.Data, &list); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printFileList(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection (vector store id or S3 prefix)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size")
	cmd.Flags().StringVar(&after, "after", "", "Continue after this file id")

	return cmd
}

func printFileList(w io.Writer, list ArchiveFileList) error {
	if len(list.Items) == 0 {
		_, err := fmt.Fprintln(w, "No files found.")
		return err
	}

	for _, f := range list.Items {
		name := f.Filename
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d bytes\n", f.ID, name, f.Bytes)
	}
	if list.HasMore {
		fmt.Fprintf(w, "\nMore files available: --after %s\n", list.LastID)
	}
	return nil
}

func archiveCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file_id>",
		Short: "Print a file's resolved content",
		Long:  "Prints the file content. JSON payloads are pretty-printed; anything else is shown as text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/vector-files/" + escapeKey(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get file: %w", err)
			}

			var doc ArchiveDocument
			if err := json.Unmarshal(resp.Data, &doc); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			return printDocument(cmd.OutOrStdout(), doc)
		},
	}
}

func printDocument(w io.Writer, doc ArchiveDocument) error {
	if doc.ContentKind == "structured" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc.Content, "", "  "); err != nil {
			return fmt.Errorf("failed to parse content: %w", err)
		}
		_, err := fmt.Fprintln(w, buf.String())
		return err
	}

	var text string
	if err := json.Unmarshal(doc.Content, &text); err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// escapeKey escapes each path segment so S3 keys keep their slashes.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

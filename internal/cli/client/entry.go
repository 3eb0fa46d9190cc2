package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// Entry represents an FAQ entry from the API.
type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// EntryPage is one page of GET /faq?limit=.
type EntryPage struct {
	Items   []Entry `json:"items"`
	Cursor  string  `json:"cursor,omitempty"`
	HasMore bool    `json:"has_more"`
}

type entryInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List FAQ entries",
		Long:    "Lists FAQ entries newest first. Without --limit every entry is returned.",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), api, limit, cursor, outputJSON(cmd))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (enables pagination)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runList(w io.Writer, api *APIClient, limit int, cursor string, asJSON bool) error {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	path := "/faq"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	var page EntryPage
	if len(query) > 0 {
		if err := json.Unmarshal(resp.Data, &page); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	} else if err := json.Unmarshal(resp.Data, &page.Items); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if asJSON {
		return printJSON(w, page)
	}

	if len(page.Items) == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}

	fmt.Fprintf(w, "Found %d entries:\n\n", len(page.Items))
	for i, e := range page.Items {
		fmt.Fprintf(w, "%d. %s\n", i+1, e.Question)
		fmt.Fprintf(w, "   ID: %s\n", e.ID)
	}
	if page.HasMore {
		fmt.Fprintf(w, "\nMore entries available: --cursor %s\n", page.Cursor)
	}

	return nil
}

// GetCmd creates the get command.
func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <entry_id>",
		Short:   "Show an FAQ entry",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/faq/" + url.PathEscape(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get entry: %w", err)
			}
			return printEntry(cmd.OutOrStdout(), resp.Data, outputJSON(cmd))
		},
	}
}

// AddCmd creates the add command.
func AddCmd() *cobra.Command {
	var input entryInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an FAQ entry",
		Long:  "Creates an FAQ entry. The server embeds question and answer before storing them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/faq", input)
			if err != nil {
				return fmt.Errorf("failed to create entry: %w", err)
			}
			return printEntry(cmd.OutOrStdout(), resp.Data, outputJSON(cmd))
		},
	}

	cmd.Flags().StringVarP(&input.Question, "question", "q", "", "Question text")
	cmd.Flags().StringVarP(&input.Answer, "answer", "a", "", "Answer text")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

// EditCmd creates the edit command.
func EditCmd() *cobra.Command {
	var input entryInput

	cmd := &cobra.Command{
		Use:   "edit <entry_id>",
		Short: "Replace question and answer of an FAQ entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Put("/faq/"+url.PathEscape(args[0]), input)
			if err != nil {
				return fmt.Errorf("failed to update entry: %w", err)
			}
			return printEntry(cmd.OutOrStdout(), resp.Data, outputJSON(cmd))
		},
	}

	cmd.Flags().StringVarP(&input.Question, "question", "q", "", "Question text")
	cmd.Flags().StringVarP(&input.Answer, "answer", "a", "", "Answer text")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

// DeleteCmd creates the delete command.
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <entry_id>",
		Short:   "Delete an FAQ entry",
		Long:    "Deletes an FAQ entry. Deleting an entry that does not exist succeeds with 0 deleted.",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Delete("/faq/" + url.PathEscape(args[0]))
			if err != nil {
				return fmt.Errorf("failed to delete entry: %w", err)
			}

			var result struct {
				Message string `json:"message"`
				Deleted int64  `json:"deleted"`
			}
			if err := json.Unmarshal(resp.Data, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), result)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entry(ies)\n", result.Deleted)
			return err
		},
	}
}

func printEntry(w io.Writer, data json.RawMessage, asJSON bool) error {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("failed to parse entry: %w", err)
	}

	if asJSON {
		return printJSON(w, e)
	}

	fmt.Fprintf(w, "ID: %s\n", e.ID)
	fmt.Fprintf(w, "Created: %s\n", e.CreatedAt)
	fmt.Fprintf(w, "Updated: %s\n", e.UpdatedAt)
	fmt.Fprintf(w, "Embedding: %d dimensions\n", len(e.Embedding))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Q: %s\n", e.Question)
	_, err := fmt.Fprintf(w, "A: %s\n", e.Answer)
	return err
}

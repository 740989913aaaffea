package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed PDFs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [doc-id]",
	Short: "Show the summary of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

var historyCmd = &cobra.Command{
	Use:   "history [doc-id]",
	Short: "Show the chat transcript of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a PDF with its vectors and transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed. Use 'pdfchat ingest <file.pdf>' to add one.")
		return nil
	}

	cmd.Printf("Documents (%d):\n\n", len(docs))
	for _, doc := range docs {
		cmd.Printf("  %s  %s\n", doc.ID, doc.Name)
		if line := firstLine(doc.Summary); line != "" {
			cmd.Printf("      %s\n", line)
		}
	}
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	summary, found, err := documentService.GetSummary(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}
	if !found {
		return fmt.Errorf("document %s: %w", args[0], domain.ErrNotFound)
	}

	cmd.Println(summary)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	history, err := documentService.GetHistory(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}

	for _, turn := range history {
		printTurn(cmd, turn)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func printTurn(cmd *cobra.Command, turn domain.ChatTurn) {
	label := "You"
	if turn.Role == domain.RoleAssistant {
		label = "Assistant"
	}
	cmd.Printf("%s: %s\n\n", label, turn.Content)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

var chatFlags modelFlags

var chatCmd = &cobra.Command{
	Use:   "chat [doc-id] [question]",
	Short: "Ask questions about a PDF",
	Long: `Ask a question about an indexed PDF. The answer is generated from the
most relevant chunks of the document and appended to its transcript.

With no question argument, an interactive session starts when stdin is a
terminal; otherwise each line read from stdin is asked in turn. Type
"exit" or press Ctrl-D to leave the session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatFlags.register(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	docID := args[0]
	if len(args) > 1 {
		return ask(cmd, docID, strings.Join(args[1:], " "))
	}

	interactive := isTerminal(cmd)
	if interactive {
		cmd.Printf("Chatting with %s. Type \"exit\" to quit.\n\n", docID)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}
		if err := ask(cmd, docID, question); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func ask(cmd *cobra.Command, docID, question string) error {
	result, err := chatService.Chat(cmd.Context(), driving.ChatRequest{
		DocumentID:     docID,
		Question:       question,
		OllamaURL:      chatFlags.ollamaURL,
		Model:          chatFlags.model,
		EmbeddingModel: chatFlags.embeddingModel,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(result.Answer)
	cmd.Println()
	return nil
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

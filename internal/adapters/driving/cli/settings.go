package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage model settings",
	Long: `View and change the Ollama server and the models used for chat and
embeddings. Settings are stored in settings.toml in the data directory.`,
	RunE: runSettingsGet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change one or more settings. Flags that are not given keep their
current value.

Examples:
  pdfchat settings set --model llama3 --embedding-model nomic-embed-text
  pdfchat settings set --ollama-url http://gpu-box:11434`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var modelsURL string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed on the Ollama server",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	settingsSetCmd.Flags().String("ollama-url", "", "Ollama server URL")
	settingsSetCmd.Flags().String("model", "", "chat model")
	settingsSetCmd.Flags().String("embedding-model", "", "embedding model")
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)

	modelsCmd.Flags().StringVar(&modelsURL, "ollama-url", "", "Ollama server URL (default: saved setting)")
	rootCmd.AddCommand(modelsCmd)
}

func runSettingsGet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	cmd.Printf("Ollama URL:      %s\n", settings.OllamaURL)
	cmd.Printf("Model:           %s\n", orNotSet(settings.Model))
	cmd.Printf("Embedding model: %s\n", orNotSet(settings.EmbeddingModel))
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	flags := cmd.Flags()
	if !flags.Changed("ollama-url") && !flags.Changed("model") && !flags.Changed("embedding-model") {
		return errors.New("nothing to set: use --ollama-url, --model or --embedding-model")
	}

	settings := settingsService.Get()
	if flags.Changed("ollama-url") {
		settings.OllamaURL, _ = flags.GetString("ollama-url")
	}
	if flags.Changed("model") {
		settings.Model, _ = flags.GetString("model")
	}
	if flags.Changed("embedding-model") {
		settings.EmbeddingModel, _ = flags.GetString("embedding-model")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return runSettingsGet(cmd, nil)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	models := settingsService.ListModels(cmd.Context(), modelsURL)
	if len(models) == 0 {
		cmd.Println("No models found. Is Ollama running?")
		return nil
	}

	for _, m := range models {
		cmd.Println(m)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

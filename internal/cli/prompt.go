package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage the saved prompt",
	Long: `The saved prompt is stored in the state database and returned with
every extraction that uses the same database.`,
}

var promptGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the saved prompt",
	Args:  cobra.NoArgs,
	RunE:  runPromptGet,
}

var promptSetCmd = &cobra.Command{
	Use:   "set [prompt]",
	Short: "Save a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPromptSet,
}

func init() {
	promptCmd.AddCommand(promptGetCmd, promptSetCmd)
	rootCmd.AddCommand(promptCmd)
}

func runPromptGet(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	prompt, err := s.Prompts().Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading prompt: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), prompt)
	return nil
}

func runPromptSet(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "saved: false")
		return err
	}
	defer s.Close()

	saved, err := s.Prompts().Save(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %t\n", saved)
	if err != nil {
		return fmt.Errorf("saving prompt: %w", err)
	}
	return nil
}

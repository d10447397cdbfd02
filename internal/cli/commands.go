package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"legis_rag/internal/document"
)

var addInternational bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the corpus from the library",
	Long: `Cleans up document file names in both library roots and rebuilds the
corpus from every document. The previous corpus stays in place if any
document cannot be read.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Download an act from legislatie.just.ro into the library",
	Long: `Searches the legislation portal by title and saves the first act found
as <title>.txt. Run sync afterwards to make it searchable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	addCmd.Flags().BoolVarP(&addInternational, "international", "i", false, "save into the EU library")
	rootCmd.AddCommand(syncCmd, askCmd, addCmd, listCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	res, err := a.Sync(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("%d documents, %d passages.\n", res.Documents, res.Chunks)
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	answer, err := a.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	cmd.Println(strings.TrimSpace(answer))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	root := document.Domestic
	if addInternational {
		root = document.International
	}

	path, err := a.AddAct(cmd.Context(), strings.Join(args, " "), root)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", path)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return a.ShowLibrary()
}

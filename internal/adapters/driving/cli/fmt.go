package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Format the SQL fragments of an annotated file",
	Long: `Format every SQL fragment of an annotated source file.

Without -w the formatted composite is printed to stdout and the file
is left untouched. With -w the formatted fragments are spliced back
into the file in place.

Examples:
  weave fmt dashboards/revenue.py
  weave fmt -w dashboards/revenue.py`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

var fmtWrite bool

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the file")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	path := args[0]
	formatted, err := editorService.FormatComposite(path)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", path, err)
	}

	if fmtWrite {
		if err := editorService.SaveComposite(path, formatted); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		cmd.Printf("Formatted %s\n", path)
		return nil
	}

	cmd.Println(formatted)
	return nil
}

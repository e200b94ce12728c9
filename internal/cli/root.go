package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "generatepytest --path <dir> --filename <file.py>",
		Short: "Generate a pytest skeleton for a Python module",
		Long: `generatepytest reads a Python module and writes test_<filename> next to it,
with one failing stub test per function, one fixture per class and one
failing stub test per class method.

The module is parsed, never executed. An empty __init__.py is created in the
target directory when it has none.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunGenerate,
	}
	// Unknown flags are skipped rather than rejected.
	rootCmd.FParseErrWhitelist.UnknownFlags = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	rootCmd.Flags().String("path", "", "Directory where the file can be found")
	rootCmd.Flags().String("filename", "", "Filename inside --path to generate a test for")
	rootCmd.Flags().String("glob", "", "Generate tests for every file under --path matching this pattern (e.g. '**/*.py')")
	rootCmd.Flags().Bool("dry-run", false, "Print the generated test file instead of writing it")
	rootCmd.Flags().Bool("diff", false, "Print a unified diff against the existing test file instead of writing it")
	rootCmd.Flags().Bool("no-marker", false, "Never create __init__.py in the target directory")
	rootCmd.Flags().String("alias", "", "Import alias of the module under test (default \"totest\")")
	rootCmd.Flags().String("indent", "", "Indentation of generated code: tab or a number of spaces (default tab)")
	rootCmd.Flags().Bool("json", false, "Print a machine-readable summary of a --glob run")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "generatepytest %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

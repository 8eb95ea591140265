package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for codefactor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codefactor",
		Short: "Annotate Python files with generated descriptions and comments",
		Long: `codefactor inspects Python source files, infers what each file does from
its imports, functions, classes and docstrings, and rewrites it with a
descriptive header and inline comments.

Every processed file is backed up first, and the annotated content is also
copied to a name built from its category tags and content hash.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

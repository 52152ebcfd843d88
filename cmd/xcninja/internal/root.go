package internal

import (
	"log"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
}

var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "xcninja",
		Short: "xcninja resolves link phases and emits a Ninja build graph",
		Long: `xcninja loads a YAML project fixture describing targets, their
variants and architectures, and their resolved sources-phase outputs; runs
the frameworks/link phase resolver over each target; and emits a root
build.ninja plus one build.ninja per target.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostic detail in addition to errors")

	cmd.AddCommand(newEmitCommand(opts))

	return cmd
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narsis77/unpoly/internal/params"
)

func newQueryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <url>",
		Short: "Print the params of a URL's query string",
		Example: `  upctl query '/search?q=unpoly&tags[]=a&tags[]=b'
  upctl query -f entries 'https://example.com/?a=1&a=2&flag'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := params.FromURL(args[0])

			extra, _ := cmd.Flags().GetStringArray("add")
			for _, kv := range extra {
				p.AddAllFromQuery(kv)
			}
			return printParams(cmd.OutOrStdout(), p, e.cfg.Output)
		},
	}
	cmd.Flags().StringArray("add", nil, "append params given as a query string, e.g. --add 'page=2'")
	return cmd
}

func newStripCommand(*env) *cobra.Command {
	return &cobra.Command{
		Use:   "strip <url>",
		Short: "Print a URL without its query string and fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), params.StripURL(args[0]))
			return err
		},
	}
}

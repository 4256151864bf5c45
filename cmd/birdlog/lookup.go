package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

var errNotFound = errors.New("not found")

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <term>",
		Short: "Resolve a Swedish or Latin bird name to both names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			term := strings.Join(args, " ")
			result := components.Lookup.LookupBird(cmd.Context(), term)
			if result == nil {
				_, _ = notFoundColor.Fprintf(cmd.ErrOrStderr(), "No species found for %q\n", term)
				return fmt.Errorf("lookup %q > %w", term, errNotFound)
			}

			return render(cmd.OutOrStdout(), result, func(w io.Writer) error {
				printName(w, *result)
				return nil
			})
		},
	}
}

func printName(w io.Writer, name taxon.Name) {
	printField(w, "Swedish", name.Swedish)
	printField(w, "Latin", name.Latin)
}

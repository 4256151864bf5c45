package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

type validateOutput struct {
	Name       string `yaml:"name"`
	Valid      bool   `yaml:"valid"`
	LooksLatin bool   `yaml:"looks_latin"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <name>",
		Short: "Check whether a name is a Latin binomial such as \"Cygnus olor\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			out := validateOutput{
				Name:       name,
				Valid:      taxon.IsValidLatinName(name),
				LooksLatin: taxon.LooksLatin(name),
			}

			if err := render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				if out.Valid {
					_, _ = foundColor.Fprintf(w, "%q is a valid Latin name\n", name)
				} else {
					_, _ = notFoundColor.Fprintf(w, "%q is not a valid Latin name\n", name)
				}
				return nil
			}); err != nil {
				return err
			}
			if !out.Valid {
				return fmt.Errorf("invalid latin name %q", name)
			}
			return nil
		},
	}
}

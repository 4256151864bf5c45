package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type mediaOutput struct {
	ImageURL     string `yaml:"image_url,omitempty"`
	FullImageURL string `yaml:"full_image_url,omitempty"`
	WikiURL      string `yaml:"wiki_url,omitempty"`
}

func newMediaCommand() *cobra.Command {
	var swedishName string

	command := &cobra.Command{
		Use:   "media <latin name>",
		Short: "Find an image and an encyclopedia article for a species",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			latin := strings.Join(args, " ")
			info := components.Media.Lookup(cmd.Context(), latin, swedishName)
			if !info.Found() {
				_, _ = notFoundColor.Fprintf(cmd.ErrOrStderr(), "No media found for %q\n", latin)
				return fmt.Errorf("media %q > %w", latin, errNotFound)
			}

			out := mediaOutput{
				ImageURL:     info.ImageURL,
				FullImageURL: info.FullImageURL,
				WikiURL:      info.WikiURL,
			}
			return render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				printField(w, "Image", out.ImageURL)
				printField(w, "Full", out.FullImageURL)
				printField(w, "Wiki", out.WikiURL)
				return nil
			})
		},
	}
	command.Flags().StringVar(&swedishName, "swedish", "", "Swedish name to try when the Latin name finds nothing")
	return command
}

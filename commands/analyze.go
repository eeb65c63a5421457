package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/ui"
)

// AnalyzeCommand uploads a photo and prints the diagnosis.
func AnalyzeCommand() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Diagnose a repair problem from a photo",
		Long: `Convert the image to JPEG, upload it and print the problem, location and
solution the assistant found. Use --note to describe the problem in words.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()

			session := w.NewPhotoSession()
			if _, err := session.Select(args[0]); err != nil {
				return err
			}

			res, err := session.Analyze(context.Background(), note)
			if err != nil {
				return err
			}
			out := newOutput(cmd.OutOrStdout(), w)
			out.println(ui.RenderResult(res, out.styles, out.width))
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "Describe the problem along with the photo")
	return cmd
}

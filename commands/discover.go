package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/log"
)

// DiscoverCommand probes the candidate hosts for a live backend, or pins
// one with --set.
func DiscoverCommand() *cobra.Command {
	var setURL string

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find the backend on the local network",
		Long: `Check the saved backend address and, if it does not answer, probe the
configured candidate hosts. The first server that answers is saved for later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()
			out := newOutput(cmd.OutOrStdout(), w)

			if setURL != "" {
				if err := w.Resolver.SetBaseURL(setURL); err != nil {
					return err
				}
				out.println(out.styles.Success.Render("서버 주소를 저장했습니다: " + w.Resolver.BaseURL()))
				return nil
			}

			out.println(out.styles.Muted.Render("서버를 찾는 중..."))
			url, found, err := w.Resolver.Detect(context.Background())
			if err != nil {
				return err
			}
			if !found {
				out.println(out.styles.Error.Render("서버를 찾을 수 없습니다. 기존 주소를 유지합니다: " + url))
				return nil
			}
			out.println(out.styles.Success.Render("서버 연결됨: " + url))
			return nil
		},
	}
	cmd.Flags().StringVar(&setURL, "set", "", "Save this backend address without probing")
	return cmd
}

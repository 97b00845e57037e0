package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reoring/idjson/internal/model"
	"github.com/reoring/idjson/internal/server"
)

// NewRenderCmd returns the command that prints the sample graph encoded by
// the configured pipeline.
func NewRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the sample payload of GET /api/post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, cfg.NewLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), srv, model.Sample())
		},
	}
}

func render(w io.Writer, srv *server.Server, v any) error {
	b, err := srv.Codec().Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

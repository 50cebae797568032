package main

import (
	"fmt"
	"net/http"
	"time"

	"event-ticketing/config"
	"event-ticketing/internal/figma"

	"github.com/spf13/cobra"
)

func figmaCommand(cfg *config.Config) *cobra.Command {
	var (
		format string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:       "figma <file|components|styles|images> <figma-url> [node-ids...]",
		Short:     "Fetches design data from the Figma API",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"file", "components", "styles", "images"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Figma.Token == "" {
				return fmt.Errorf("FIGMA_TOKEN is not set")
			}
			fileID, ok := figma.ExtractFileID(args[1])
			if !ok {
				return fmt.Errorf("not a figma file url: %s", args[1])
			}

			client := figma.New(&http.Client{Timeout: 30 * time.Second}, cfg.Figma.BaseURL, cfg.Figma.Token)
			ctx := cmd.Context()

			var (
				raw []byte
				err error
			)
			switch args[0] {
			case "file":
				raw, err = client.GetFile(ctx, fileID)
			case "components":
				raw, err = client.GetComponents(ctx, fileID)
			case "styles":
				raw, err = client.GetStyles(ctx, fileID)
			case "images":
				if len(args) < 3 {
					return fmt.Errorf("images requires at least one node id")
				}
				raw, err = client.ExportImages(ctx, fileID, args[2:], figma.ExportOptions{
					Format: figma.ImageFormat(format),
					Scale:  scale,
				})
			default:
				return fmt.Errorf("unknown resource %q", args[0])
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "png", "image format (jpg, png, svg, pdf)")
	cmd.Flags().Float64Var(&scale, "scale", 2, "image scale")
	return cmd
}

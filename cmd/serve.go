package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/showloom-cli/internal/server"
	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	srvAddr       string
	srvDefaultCSV string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := currentConfig()
		addr := conf.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = srvAddr
		}
		defaultCSV := conf.DefaultCSV
		if cmd.Flags().Changed("default-csv") {
			defaultCSV = srvDefaultCSV
		}

		lg := currentLogger()
		store := session.NewStore(session.Options{
			MaxLanguages: conf.MaxLanguages,
			PreviewRows:  conf.PreviewRows,
		}, lg)
		srv := server.New(server.Config{
			DefaultCSV:     defaultCSV,
			ReportFileName: conf.ReportFileName,
			TopN:           conf.TopNGenres,
			MaxUploadBytes: int64(conf.MaxUploadMB) << 20,
		}, store, lg)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (overrides config listen_addr)")
	serveCmd.Flags().StringVar(&srvDefaultCSV, "default-csv", "", "local CSV served by the default-dataset route (overrides config)")
}

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/bibrec/internal/server"
	"github.com/tsawler/bibrec/lookup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition server",
	Long: `Start the HTTP recognition server.

Endpoints:
  POST /recognize - recognize a page stream, returns the citation record
  POST /report    - spool a diagnostic report
  GET  /healthz   - health check
  GET  /stats     - request counters and uptime

Examples:
  bibrecd serve --word-db wordlist.sqlite --journal-db journals.sqlite --doi-db dois.sqlite
  BIBREC_PORT=9000 bibrecd serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if viper.GetBool("debug") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))

		srv, err := server.New(server.Config{
			Host: viper.GetString("host"),
			Port: viper.GetString("port"),
			Stores: lookup.SQLiteConfig{
				WordPath:    viper.GetString("word-db"),
				JournalPath: viper.GetString("journal-db"),
				DOIPath:     viper.GetString("doi-db"),
			},
			ReportDir: viper.GetString("report-dir"),
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("host", "127.0.0.1", "host to bind to")
	serveCmd.Flags().String("port", "8003", "port to listen on")
	serveCmd.Flags().String("word-db", "wordlist.sqlite", "word-statistics database path")
	serveCmd.Flags().String("journal-db", "journals.sqlite", "journal-name database path")
	serveCmd.Flags().String("doi-db", "dois.sqlite", "title-to-DOI database path")
	serveCmd.Flags().String("report-dir", "reports", "directory for spooled diagnostic reports")
	serveCmd.Flags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlags(serveCmd.Flags())
}

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/bibrec/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bibrecd",
	Short: "Bibliographic metadata recognition service",
	Long: `bibrecd recognizes bibliographic metadata in the geometric text layout
of academic PDF pages.

It accepts the array-encoded page stream produced by a PDF text
extractor and returns title, authors, abstract, DOI, ISBN, ISSN,
journal, volume, issue, year, pages, keywords, and language.

Recognition is backed by three read-only SQLite lookup databases:
a word-statistics list, a journal-name list, and a title-to-DOI index.`,
	Version: version.GitRelease,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./bibrec.yaml)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads the optional config file and wires BIBREC_* environment
// variables on top of it.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibrec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("BIBREC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

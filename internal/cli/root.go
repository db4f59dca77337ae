// Package cli implements the breakscan command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "breakscan",
	Short: "breakscan - find where line breakpoints can go",
	Long: `breakscan parses source files with tree-sitter and reports which lines can
hold a debugger line breakpoint, which lambdas on a line can be targeted
separately, and keeps a persistent set of breakpoints that is rechecked
as files change.

Configuration is read from .breakscan/config.yml in the project root and
BREAKSCAN_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.breakscan/config.yml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

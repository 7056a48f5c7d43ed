package cli

import (
	"github.com/ghost-ng/ghostman/config"
	"github.com/ghost-ng/ghostman/internal/defaults"
	"github.com/ghost-ng/ghostman/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "ghostman",
	Long:         ghostman,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Setup()
	},
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(defaults.AppName) })

	rootCmd.PersistentFlags().String("loglevel", "info", "Set the logging level (info, warn, error, debug)")
	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))

	rootCmd.PersistentFlags().String("profile", "", "Set the logging profile (production or empty)")
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.PersistentFlags().Bool("stacktrace", false, "Show the stack trace in error logs")
	viper.BindPFlag("stacktrace", rootCmd.PersistentFlags().Lookup("stacktrace"))

	rootCmd.PersistentFlags().String("datadir", "", "Override the per-user data directory")
	viper.BindPFlag("datadir", rootCmd.PersistentFlags().Lookup("datadir"))
}

func ExecuteE() error {
	return rootCmd.Execute()
}

func GetRootCMD() *cobra.Command {
	return rootCmd
}

package cli

import (
	"fmt"

	"github.com/ghost-ng/ghostman/config"
	"github.com/ghost-ng/ghostman/internal/defaults"
	"github.com/ghost-ng/ghostman/internal/instance"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:           "status",
	Short:         "Report whether another ghostman instance is running",
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		detector := instance.NewDetector(config.LockFilePath(), config.ActivityLogPath(), defaults.AppTag)

		res := detector.Detect()
		switch res.Status {
		case instance.StatusRunning:
			reportRunning(res)
			return instance.ErrAlreadyRunning
		case instance.StatusIndeterminate:
			fmt.Printf("status indeterminate (%v); treating as not running\n", res.Reason)
		default:
			fmt.Println("ghostman is not running")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

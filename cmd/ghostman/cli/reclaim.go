package cli

import (
	"fmt"

	"github.com/ghost-ng/ghostman/config"
	"github.com/ghost-ng/ghostman/internal/defaults"
	"github.com/ghost-ng/ghostman/internal/instance"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reclaimCmd = &cobra.Command{
	Use:           "reclaim",
	Short:         "Remove a stale single-instance claim left by a crashed process",
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lockPath := config.LockFilePath()

		detector := instance.NewDetector(lockPath, config.ActivityLogPath(), defaults.AppTag)
		if res := detector.Detect(); res.Running() {
			reportRunning(res)
			return instance.ErrAlreadyRunning
		}

		removed, err := instance.NewReclaimer(lockPath, defaults.AppTag).Reclaim()
		if err != nil {
			zap.L().Warn("stale claim cleanup failed", zap.Error(err))
			return err
		}
		if removed {
			fmt.Println("removed stale claim at", lockPath)
		} else {
			fmt.Println("nothing to reclaim")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reclaimCmd)
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghost-ng/ghostman/config"
	"github.com/ghost-ng/ghostman/internal/defaults"
	"github.com/ghost-ng/ghostman/internal/instance"
	"github.com/ghost-ng/ghostman/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:           "run",
	Short:         "Start ghostman and hold the single-instance claim",
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		startLog()

		lockPath := config.LockFilePath()
		activityPath := config.ActivityLogPath()

		detector := instance.NewDetector(lockPath, activityPath, defaults.AppTag)
		if res := detector.Detect(); res.Running() {
			reportRunning(res)
			return instance.ErrAlreadyRunning
		}

		guard := instance.NewGuard(lockPath, defaults.AppTag)
		if err := guard.Acquire(); err != nil {
			if errors.Is(err, instance.ErrAlreadyRunning) {
				// lost the startup race; same outcome as a positive detection
				fmt.Println("ghostman is already running (lost startup race)")
				return err
			}
			zap.L().Error("failed to acquire instance claim", zap.Error(err))
			return err
		}

		// The activity log is opened only once the claim is held; it is
		// one of the two resources no second live writer may touch.
		_, closeLog, err := log.SetupWithActivityLog(activityPath)
		if err != nil {
			zap.L().Warn("activity log setup failed", zap.Error(err))
		} else {
			defer closeLog()
		}

		// Release must run on every shutdown path, signal-driven included.
		defer func() {
			if err := guard.Release(); err != nil {
				zap.L().Warn("release instance claim on shutdown", zap.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		zap.L().Info("ghostman running", zap.Int("pid", os.Getpid()), zap.String("lock", lockPath))
		<-ctx.Done()
		zap.L().Info("ghostman shutting down")
		return nil
	},
}

func reportRunning(res instance.Result) {
	fmt.Printf("ghostman is already running (detected via %s)\n", res.Method)
	if res.Record != nil {
		fmt.Printf("owner pid %d, claimed %s ago\n",
			res.Record.OwnerPID, res.Record.Age().Round(time.Second))
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}

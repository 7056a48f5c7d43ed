package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ghost-ng/ghostman/internal/defaults"
	"github.com/ghost-ng/ghostman/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InitConfig initializes configuration
func InitConfig(filenames ...string) {
	if len(filenames) > 0 {
		filenames = append(filenames, "config")
	} else {
		filenames = []string{"config"}
	}
	viper.SetConfigName(utils.Or(filenames...)) // Name of the config file (without extension)
	viper.SetConfigType("yaml")                 // File format (yaml)
	viper.AddConfigPath(GetDataPath())
	viper.AutomaticEnv() // Read environment variables

	// Load config file
	if err := viper.ReadInConfig(); err != nil {
		zap.L().Debug("Config file not found, using defaults or environment variables.")
	} else {
		zap.L().Debug("Using config file", zap.String("configFile", viper.ConfigFileUsed()))
	}

}

func getDataPath() (string, error) {
	if override := viper.GetString("datadir"); override != "" {
		dataPath := utils.EvalPath(override)
		if err := os.MkdirAll(dataPath, os.ModePerm); err != nil {
			return "", err
		}
		return dataPath, nil
	}

	basePath, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dataPath := filepath.Join(basePath, defaults.AppName)
	fileDescr, err := os.Stat(dataPath)
	if os.IsNotExist(err) {
		err := os.MkdirAll(dataPath, os.ModePerm)
		if err != nil {
			return "", err
		}
		fileDescr, err = os.Stat(dataPath)
		if err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	if !fileDescr.IsDir() {
		return "", errors.New("default data dir is file")
	}
	return dataPath, nil
}

// GetDataPath returns the per-user data directory. The lock file path
// derived from it must stay stable across versions so an old instance's
// claim is always visible to a newer instance's detector.
func GetDataPath() string {
	dataPath, err := getDataPath()
	if err != nil {
		zap.L().Warn("error getting data path", zap.Error(err))
		zap.L().Info("defaulting to", zap.String("cwd", func() string {
			wd, err := os.Getwd()
			if err != nil {
				return "."
			}
			return wd
		}()))
		dataPath = "."
	}
	return dataPath
}

// LockFilePath is the canonical single-instance lock file location.
func LockFilePath() string {
	return filepath.Join(GetDataPath(), defaults.LockFileName)
}

// ActivityLogPath is the append-only activity log location, doubling as
// the detector's handle-exclusivity probe resource.
func ActivityLogPath() string {
	return filepath.Join(GetDataPath(), defaults.ActivityLogName)
}

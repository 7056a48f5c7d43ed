package log

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Setup() (*zap.Logger, error) {
	profile := viper.GetString("profile")
	level := viper.GetString("loglevel")
	showStackTrace := viper.GetBool("stacktrace")

	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zap.L().Warn("Invalid log level, falling back to INFO", zap.String("loglevel", level))
		zapLevel = zapcore.InfoLevel
	}

	var cfg zap.Config
	if profile == "prod" || profile == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig = zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = !showStackTrace

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)

	return logger, nil
}

// SetupWithActivityLog tees the global logger into the append-only
// activity log at path, on top of the console output Setup configures.
// The sink holds a non-blocking lock on the file for its whole lifetime;
// that held lock is the signal instance detection probes for. The
// returned closer flushes the file and drops the lock.
func SetupWithActivityLog(path string) (*zap.Logger, func(), error) {
	logger, err := Setup()
	if err != nil {
		return nil, nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		zap.L().Warn("cannot open activity log, console only", zap.String("path", path), zap.Error(err))
		return logger, func() {}, nil
	}

	// Seed new files so appended records start past the locked first
	// byte; Windows range locks are mandatory and would otherwise block
	// the sink's own writes at offset zero.
	if st, serr := file.Stat(); serr == nil && st.Size() == 0 {
		fmt.Fprintln(file, "# ghostman activity log")
	}

	fl := flock.New(path)
	if locked, lerr := fl.TryLock(); lerr != nil || !locked {
		zap.L().Warn("cannot lock activity log, other instances will not detect it as held",
			zap.String("path", path), zap.Error(lerr))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(file),
		logger.Level(),
	)

	teed := logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))

	zap.ReplaceGlobals(teed)

	closer := func() {
		_ = teed.Sync()
		_ = fl.Close()
		_ = file.Close()
	}
	return teed, closer, nil
}

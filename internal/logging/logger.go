package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/mapty/pkg"
)

type LoggerSetupParams struct {
	ServiceName      string
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func closes the log
// file, if any, and should be called on shutdown.
func Setup(params LoggerSetupParams) (func(), error) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if params.ServiceName != "" {
		logrus.AddHook(newServiceFieldsHook(params.ServiceName, params.Environment))
	}

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			logrus.Infoln("sentry set up successfully")
		}
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Println("writing logs only to STDOUT")
		return func() {}, nil
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	logsDir := filepath.Dir(params.LogFileName)
	exists, err := pkg.PathExists(logsDir, true)
	if err != nil {
		return nil, fmt.Errorf("logs dir %s: %w", logsDir, err)
	}
	if !exists {
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return nil, fmt.Errorf("create logs dir %s: %w", logsDir, err)
		}
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    50,    // megabytes
		MaxAge:     365,   // days
		LocalTime:  false, // false -> use UTC
		Compress:   true,  // disabled by default
		MaxBackups: 30,
	}

	var out io.Writer = lumberJackLogger
	if params.LogToStdout {
		out = pkg.NewCombinedWriter(os.Stdout, lumberJackLogger)
	}
	logrus.SetOutput(out)

	if params.LogToStdout {
		logrus.Printf("writing logs to [%s] and STDOUT", params.LogFileName)
	} else {
		logrus.Printf("writing logs to [%s]", params.LogFileName)
	}

	return func() {
		logrus.SetOutput(os.Stdout)
		if err := lumberJackLogger.Close(); err != nil {
			logrus.Errorf("close log file: %s", err)
		}
	}, nil
}

// serviceFieldsHook stamps every entry with the service name and environment.
type serviceFieldsHook struct {
	service     string
	environment string
}

func newServiceFieldsHook(service, environment string) *serviceFieldsHook {
	return &serviceFieldsHook{
		service:     service,
		environment: environment,
	}
}

func (h *serviceFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceFieldsHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	if h.environment != "" {
		if _, ok := entry.Data["env"]; !ok {
			entry.Data["env"] = h.environment
		}
	}
	return nil
}

// GetLevel parses the configured level, anything unknown falls back to trace.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}

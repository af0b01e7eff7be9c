package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sevenply/plybot/internal/setup/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Manager handles the creation and management of log files and
// directories. Each run gets a timestamped session directory; old
// sessions beyond the configured retention are removed.
type Manager struct {
	instanceID        string
	logDir            string
	currentSessionDir string
	level             string
	maxLogsToKeep     int
}

// NewManager creates a new Manager instance.
func NewManager(logDir string, debugCfg *config.Debug) *Manager {
	return &Manager{
		instanceID:    uuid.New().String(),
		logDir:        logDir,
		level:         debugCfg.LogLevel,
		maxLogsToKeep: debugCfg.MaxLogsToKeep,
	}
}

// GetLoggers initializes the main and database loggers, creating the
// session directory on first use.
func (m *Manager) GetLoggers() (*zap.Logger, *zap.Logger, error) {
	if err := m.initSessionDir(); err != nil {
		return nil, nil, err
	}

	mainLogger, err := m.newLogger("main.log", true)
	if err != nil {
		return nil, nil, err
	}

	dbLogger, err := m.newLogger("database.log", false)
	if err != nil {
		return nil, nil, err
	}

	return mainLogger, dbLogger, nil
}

func (m *Manager) initSessionDir() error {
	if m.currentSessionDir != "" {
		return nil
	}

	sessionName := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), m.instanceID[:8])
	sessionDir := filepath.Join(m.logDir, sessionName)

	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log session directory: %w", err)
	}

	m.currentSessionDir = sessionDir
	m.pruneSessions()

	return nil
}

func (m *Manager) newLogger(filename string, console bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(m.level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	logFile, err := os.Create(filepath.Join(m.currentSessionDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(logFile), level),
	}

	if console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// pruneSessions removes the oldest session directories beyond the
// retention limit. Failures are ignored; logging must not depend on
// cleanup succeeding.
func (m *Manager) pruneSessions() {
	if m.maxLogsToKeep <= 0 {
		return
	}

	entries, err := os.ReadDir(m.logDir)
	if err != nil {
		return
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			sessions = append(sessions, entry.Name())
		}
	}

	if len(sessions) <= m.maxLogsToKeep {
		return
	}

	sort.Strings(sessions)
	for _, name := range sessions[:len(sessions)-m.maxLogsToKeep] {
		os.RemoveAll(filepath.Join(m.logDir, name))
	}
}

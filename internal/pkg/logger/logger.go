package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repositório) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	Sync() error
}

// ZapLogger é a implementação concreta da interface Logger sobre o zap,
// com saída JSON estruturada.
type ZapLogger struct {
	base *zap.Logger
}

// NewLogger cria e retorna uma nova instância do Logger.
// Nível inválido ou vazio cai para "info". Esta função é chamada no main.go.
func NewLogger(level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	if err := cfg.Level.UnmarshalText([]byte(normalizeLevel(level))); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	base, err := cfg.Build()
	if err != nil {
		// Sem saída configurável não há como logar, então seguimos sem log.
		return NewFromZap(zap.NewNop())
	}
	return NewFromZap(base.With(zap.String("service", "gostockflow")))
}

// NewFromZap adapta um *zap.Logger já construído (útil em testes com zaptest/observer).
func NewFromZap(base *zap.Logger) Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ZapLogger{base: base}
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return "info"
	}
	return level
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Implementações da Interface Logger

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.base.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.base.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.base.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error) {
	l.base.Error(msg, zap.Error(err))
}

// Fatal registra o erro e encerra o processo (os.Exit(1)).
func (l *ZapLogger) Fatal(msg string, err error) {
	l.base.Fatal(msg, zap.Error(err))
}

func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

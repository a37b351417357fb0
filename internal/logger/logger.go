// Package logger 基于 zap 的全局日志，release 模式写入 lumberjack 滚动文件
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName  = "logs"
	defaultLogFilename = "mesa.log"
	serviceName        = "mesa"
	debugMode          = "debug"
)

// Options 日志输出配置，零值字段使用默认滚动策略
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) rotation(path string) *lumberjack.Logger {
	pick := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    pick(o.MaxSizeMB, 100),
		MaxBackups: pick(o.MaxBackups, 7),
		MaxAge:     pick(o.MaxAgeDays, 30),
		Compress:   o.Compress,
	}
}

var (
	global   atomic.Pointer[zap.Logger]
	fallback = newConsole(os.Stdout, zap.NewAtomicLevelAt(zap.InfoLevel))
)

// Init 初始化全局日志并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	l := New(mode, options)
	global.Store(l)
	zap.ReplaceGlobals(l)
	return l
}

// New 创建日志实例
// debug 模式只输出控制台；其他模式写 JSON 文件，warn 以上同时输出到 stderr
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), debugMode)
	level := resolveLevel(options.Level, debug)
	if debug {
		return newConsole(os.Stdout, level)
	}

	path, err := resolveLogFilePath(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		return newConsole(os.Stdout, level)
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(options.rotation(path)), level)
	stderrCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), zap.WarnLevel)
	return build(zapcore.NewTee(fileCore, stderrCore))
}

func newConsole(w *os.File, level zap.AtomicLevel) *zap.Logger {
	return build(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(w), level))
}

func build(core zapcore.Core) *zap.Logger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", serviceName))
}

func resolveLevel(raw string, debug bool) zap.AtomicLevel {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw != "" {
		if lvl, err := zap.ParseAtomicLevel(raw); err == nil {
			return lvl
		}
	}
	if debug {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zap.NewAtomicLevelAt(zap.InfoLevel)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// resolveLogFilePath 确定日志文件路径并确认可写
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultLogFilename
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}

// Z 当前全局日志，未初始化时退回控制台
func Z() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return fallback
}

// S SugaredLogger
func S() *zap.SugaredLogger { return Z().Sugar() }

// SW 附带字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return S()
	}
	return S().With(kv...)
}

// Component 按组件名打标的 SugaredLogger
func Component(name string) *zap.SugaredLogger { return SW("component", name) }

// StdLogger 供标准库 log 接口使用
func StdLogger() *log.Logger { return zap.NewStdLog(Z()) }

func Debugw(msg string, kv ...interface{}) { S().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { S().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { S().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { S().Errorw(msg, kv...) }

// Sync 刷新缓冲
func Sync() { _ = Z().Sync() }

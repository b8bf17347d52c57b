package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志对象
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger 初始化日志系统，logFile 非空时同时写入滚动日志文件
func InitLogger(debug bool, logFile string) {
	var output io.Writer = os.Stdout
	if debug {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if logFile != "" {
		output = zerolog.MultiLevelWriter(output, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)

	Logger.Info().Bool("debug", debug).Str("logFile", logFile).Msg("logger initialised")
}

// LogApiRequest 记录API请求
func LogApiRequest(requestID, method, url string, query interface{}, authorization string) {
	Logger.Info().
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Interface("query", query).
		Str("authorization", ShortAuthHeader(authorization)).
		Msg("api request")
}

// LogApiResponse 记录API响应
func LogApiResponse(requestID, method, url string, statusCode int, responseTime time.Duration) {
	event := Logger.Info()
	if statusCode >= 500 {
		event = Logger.Error()
	} else if statusCode >= 400 {
		event = Logger.Warn()
	}
	event.
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Msg("api response")
}

// LogInfo 记录
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// ShortAuthHeader 截断授权头，避免日志泄露 token
func ShortAuthHeader(header string) string {
	if len(header) > 15 {
		return header[:15] + "..."
	}
	return header
}

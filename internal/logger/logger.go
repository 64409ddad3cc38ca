// Package logger はアプリケーション共通のzerologロガーを提供する
package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// New サービス名とタイムスタンプ付きのJSONロガーを返す。
// pkg/errors のスタックトレースは .Stack() 指定時に出力される
func New(serviceName, level string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

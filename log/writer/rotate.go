package writer

import (
	"fmt"
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode picks between time-based and size-based log rotation.
type RotateMode int

const (
	RotateModeTime RotateMode = iota
	RotateModeSize
)

func (m RotateMode) String() string {
	switch m {
	case RotateModeTime:
		return "time"
	case RotateModeSize:
		return "size"
	default:
		return "unknown"
	}
}

func timeRotateWriter(config RotateConfig) (io.Writer, error) {
	w, err := rotatelogs.New(
		config.fullPathWithFormat("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.fullPath()),
		rotatelogs.WithMaxAge(time.Duration(config.Time.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.Time.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("create time rotate writer: %w", err)
	}
	return w, nil
}

func sizeRotateWriter(config RotateConfig) (io.Writer, error) {
	return &lumberjack.Logger{
		Filename:   config.fullPath(),
		MaxSize:    config.Size.MaxSize,
		MaxBackups: config.Size.MaxBackups,
		MaxAge:     config.Size.MaxAge,
		Compress:   config.Size.Compress,
	}, nil
}

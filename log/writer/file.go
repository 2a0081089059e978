package writer

import (
	"fmt"
	"io"
	"path/filepath"
)

// RotateConfig selects and parameterizes a rotation strategy.
type RotateConfig struct {
	Mode     RotateMode
	Filepath string
	Filename string
	FileExt  string
	Time     TimeRotateConfig
	Size     SizeRotateConfig
}

// TimeRotateConfig rotates on a fixed period. Both fields are hours.
type TimeRotateConfig struct {
	MaxAge       int
	RotationTime int
}

// SizeRotateConfig rotates when the file exceeds MaxSize megabytes.
type SizeRotateConfig struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// File returns a writer for the configured rotation mode.
func File(config RotateConfig) (io.Writer, error) {
	switch config.Mode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config)
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %v", config.Mode)
	}
}

func (c *RotateConfig) fullPath() string {
	return c.fullPathWithFormat("")
}

func (c *RotateConfig) fullPathWithFormat(format string) string {
	name := c.Filename
	if format != "" {
		name += "." + format
	}
	name += "." + c.FileExt
	return filepath.Join(c.Filepath, name)
}

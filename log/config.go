package log

import "github.com/kochabx/ciphertrace/log/writer"

// FileConfig describes the rotated log file. Zero values fall back to
// the `default` tags.
type FileConfig struct {
	Filepath   string            `json:"filepath" mapstructure:"filepath" default:"log"`
	Filename   string            `json:"filename" mapstructure:"filename" default:"ciphertrace"`
	FileExt    string            `json:"file_ext" mapstructure:"file_ext" default:"log"`
	RotateMode writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode"`
	Time       TimeRotate        `json:"time" mapstructure:"time"`
	Size       SizeRotate        `json:"size" mapstructure:"size"`
}

// TimeRotate configures hour-granularity rotation.
type TimeRotate struct {
	MaxAge       int `json:"max_age" mapstructure:"max_age" default:"168"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time" default:"24"`
}

// SizeRotate configures size-based rotation.
type SizeRotate struct {
	MaxSize    int  `json:"max_size" mapstructure:"max_size" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" mapstructure:"max_age" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Mode:     c.RotateMode,
		Time: writer.TimeRotateConfig{
			MaxAge:       c.Time.MaxAge,
			RotationTime: c.Time.RotationTime,
		},
		Size: writer.SizeRotateConfig{
			MaxSize:    c.Size.MaxSize,
			MaxBackups: c.Size.MaxBackups,
			MaxAge:     c.Size.MaxAge,
			Compress:   c.Size.Compress,
		},
	}
}

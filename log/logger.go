// Package log wraps zerolog with console, file and combined outputs.
package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/ciphertrace/core/tag"
	"github.com/kochabx/ciphertrace/log/writer"
)

// Logger is a zerolog.Logger plus ownership of the file writer behind
// it, so rotated outputs can be flushed and closed on shutdown.
type Logger struct {
	zerolog.Logger
	writer io.Writer
	closer io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Close releases the underlying writer, if it holds resources.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func newLogger(w io.Writer, opts ...Option) *Logger {
	l := &Logger{
		writer: w,
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// New creates a console logger.
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewFile creates a logger writing to a rotated file.
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("apply file config defaults: %w", err)
	}

	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("create file writer: %w", err)
	}

	l := newLogger(w, opts...)
	if closer, ok := w.(io.Closer); ok {
		l.closer = closer
	}
	return l, nil
}

// NewMulti creates a logger writing to both a rotated file and the
// console.
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("apply file config defaults: %w", err)
	}

	fw, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("create file writer: %w", err)
	}

	l := newLogger(zerolog.MultiLevelWriter(fw, writer.Console()), opts...)
	if closer, ok := fw.(io.Closer); ok {
		l.closer = closer
	}
	return l, nil
}

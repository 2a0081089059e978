package log

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kochabx/ciphertrace/log/writer"
)

func TestNewFileWritesJSON(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFile(FileConfig{
		Filepath:   dir,
		Filename:   "test",
		RotateMode: writer.RotateModeSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Info().Str("algorithm", "aes").Msg("trace built")

	data, err := filepath.Glob(filepath.Join(dir, "test.log*"))
	if err != nil || len(data) == 0 {
		t.Fatalf("no log file created in %s", dir)
	}
}

func TestWithLevelFilters(t *testing.T) {
	l := New(WithLevel(zerolog.WarnLevel))
	if l.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}

func TestFileConfigDefaults(t *testing.T) {
	c := FileConfig{}
	l, err := NewFile(c)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
}

func TestFileConfigJSON(t *testing.T) {
	c := FileConfig{Filename: "ciphertrace", RotateMode: writer.RotateModeTime}
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	var back FileConfig
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Filename != "ciphertrace" || back.RotateMode != writer.RotateModeTime {
		t.Errorf("round trip = %+v", back)
	}
}

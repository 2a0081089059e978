package tag

import (
	"errors"
	"testing"
	"time"
)

type inner struct {
	Rate float64 `default:"1.5"`
}

type sample struct {
	Host     string        `default:"localhost"`
	Port     int           `default:"8080"`
	Debug    bool          `default:"true"`
	Interval time.Duration `default:"5s"`
	Tags     []string      `default:"a, b, c"`
	Nested   inner
	Ptr      *inner
	private  string `default:"ignored"`
}

func TestApplyDefaults(t *testing.T) {
	s := &sample{}
	if err := ApplyDefaults(s); err != nil {
		t.Fatal(err)
	}

	if s.Host != "localhost" || s.Port != 8080 || !s.Debug {
		t.Errorf("scalars = %+v", s)
	}
	if s.Interval != 5*time.Second {
		t.Errorf("Interval = %v", s.Interval)
	}
	if len(s.Tags) != 3 || s.Tags[1] != "b" {
		t.Errorf("Tags = %v", s.Tags)
	}
	if s.Nested.Rate != 1.5 {
		t.Errorf("Nested.Rate = %v", s.Nested.Rate)
	}
	if s.Ptr == nil || s.Ptr.Rate != 1.5 {
		t.Errorf("Ptr = %+v", s.Ptr)
	}
	if s.private != "" {
		t.Error("unexported fields must be skipped")
	}
}

func TestApplyDefaultsKeepsExisting(t *testing.T) {
	s := &sample{Host: "example.com", Port: 9000}
	if err := ApplyDefaults(s); err != nil {
		t.Fatal(err)
	}
	if s.Host != "example.com" || s.Port != 9000 {
		t.Errorf("existing values overwritten: %+v", s)
	}
}

func TestApplyDefaultsRejectsNonPointer(t *testing.T) {
	if err := ApplyDefaults(sample{}); !errors.Is(err, ErrTargetMustBePointer) {
		t.Errorf("err = %v", err)
	}
	var p *sample
	if err := ApplyDefaults(p); !errors.Is(err, ErrTargetMustBePointer) {
		t.Errorf("nil pointer err = %v", err)
	}
}

func TestApplyDefaultsBadTag(t *testing.T) {
	type bad struct {
		N int `default:"not-a-number"`
	}
	err := ApplyDefaults(&bad{})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Path != "N" {
		t.Errorf("err = %v", err)
	}
}

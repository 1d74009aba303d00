package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorKeyRenamed(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo, "json"))
	log.Error("render failed", "error", errors.New("boom"), "model", "lj")

	var rec map[string]any
	g.Expect(json.Unmarshal(buf.Bytes(), &rec)).To(Succeed())
	g.Expect(rec).To(HaveKeyWithValue("err", "boom"))
	g.Expect(rec).NotTo(HaveKey("error"))
	g.Expect(rec).To(HaveKeyWithValue("model", "lj"))
}

func TestTextFormatAndLevel(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn, "text"))
	log.Info("hidden")
	log.Warn("shown", "error", "x")

	g.Expect(buf.String()).NotTo(ContainSubstring("hidden"))
	g.Expect(buf.String()).To(ContainSubstring("msg=shown"))
	g.Expect(buf.String()).To(ContainSubstring("err=x"))

	NewNop().Error("nothing")
}

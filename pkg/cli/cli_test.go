package cli

import (
	"bytes"
	"errors"
	"testing"

	"gochip8/pkg/config"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want config.Options
	}{
		{
			name: "assemble",
			args: []string{"-in", "maze.asm"},
			want: config.Options{Input: "maze.asm", Output: "maze.ch8", Scale: config.DefaultScale},
		},
		{
			name: "assemble and run",
			args: []string{"-in", "maze.asm", "-out", "m.bin", "-run", "-cycles", "100", "-dump"},
			want: config.Options{Input: "maze.asm", Output: "m.bin", Run: true, Cycles: 100, Dump: true, Scale: config.DefaultScale},
		},
		{
			name: "run binary",
			args: []string{"-run-bin", "maze.ch8", "-screenshot", "s.png", "-scale", "4", "-disasm", "-q"},
			want: config.Options{RunBin: "maze.ch8", Screenshot: "s.png", Scale: 4, Disasm: true, Quiet: true},
		},
		{
			name: "resume and hibernate",
			args: []string{"-resume", "a.zip", "-hibernate", "b.zip", "-debug"},
			want: config.Options{Resume: "a.zip", Hibernate: "b.zip", Debug: true, Scale: config.DefaultScale},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no action", nil, "nothing to do"},
		{"unknown flag", []string{"-bogus"}, "flag provided but not defined"},
		{"bad number", []string{"-run-bin", "a.ch8", "-cycles", "many"}, "invalid value"},
		{"positional", []string{"-run-bin", "a.ch8", "extra"}, "unexpected argument extra"},
		{"conflict", []string{"-run-bin", "a.ch8", "-resume", "b.zip"}, "not both"},
		{"scale", []string{"-run-bin", "a.ch8", "-scale", "0"}, "invalid scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	_, err := ParseFlags([]string{"-h"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.Equal(t, "", usageErr.Error())
}

func TestShowUsage(t *testing.T) {
	_, err := ParseFlags(nil)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	var buf bytes.Buffer
	usageErr.ShowUsage(&buf)
	out := buf.String()
	assert.Contains(t, out, "usage: gochip8")
	assert.Contains(t, out, "-run-bin")
	assert.Contains(t, out, "-hibernate")
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions_Valid(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		field  string
	}{
		{"unknown kind", func(o *Options) { o.Kind = "pca" }, "kind"},
		{"word limit low", func(o *Options) { o.WordLimit = 19 }, "word_limit"},
		{"word limit high", func(o *Options) { o.WordLimit = 501 }, "word_limit"},
		{"negative cutoff", func(o *Options) { o.Cutoff = -0.1 }, "cutoff"},
		{"cutoff above one", func(o *Options) { o.Cutoff = 1.5 }, "cutoff"},
		{"negative emergency", func(o *Options) { o.NEmergency = -1 }, "n_emergency"},
		{"bad format", func(o *Options) { o.OutputFormat = "html" }, "output_format"},
		{"heading zero", func(o *Options) { o.HeadingLevel = 0 }, "heading_level"},
		{"heading seven", func(o *Options) { o.HeadingLevel = 7 }, "heading_level"},
		{"verbosity", func(o *Options) { o.Verbosity = 3 }, "verbosity"},
		{"echo", func(o *Options) { o.Echo = "loud" }, "echo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)

			err := opts.Validate()
			require.Error(t, err)
			assert.True(t, IsCategory(err, ErrCatConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestOptions_ValidateBoundaries(t *testing.T) {
	opts := DefaultOptions()
	opts.WordLimit = MinWordLimit
	opts.Cutoff = 0
	opts.NEmergency = 0
	opts.HeadingLevel = MaxHeadingLevel
	assert.NoError(t, opts.Validate())

	opts.WordLimit = MaxWordLimit
	opts.Cutoff = 1
	assert.NoError(t, opts.Validate())
}

func TestNormalizeVerbosity(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    Verbosity
		wantErr bool
	}{
		{nil, VerbosityFull, false},
		{false, VerbosityFull, false},
		{true, VerbositySilent, false},
		{0, VerbosityFull, false},
		{1, VerbosityProgress, false},
		{2, VerbositySilent, false},
		{int64(1), VerbosityProgress, false},
		{1.0, VerbosityProgress, false},
		{"2", VerbositySilent, false},
		{"true", VerbositySilent, false},
		{Verbosity(1), VerbosityProgress, false},
		{3, 0, true},
		{-1, 0, true},
		{1.5, 0, true},
		{"loud", 0, true},
		{[]int{1}, 0, true},
	}

	for _, tt := range tests {
		got, err := NormalizeVerbosity(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

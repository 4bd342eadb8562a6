package commands

import (
	"testing"

	"github.com/alan/ci-bot/internal/slash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePRNumberFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		required bool
		want     int
		wantErr  bool
	}{
		{name: "plain number", args: []string{"123"}, want: 123},
		{name: "hash prefix", args: []string{"#42"}, want: 42},
		{name: "no args optional", args: nil, want: 0},
		{name: "no args required", args: nil, required: true, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePRNumberFromArgs(tt.args, tt.required)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetWorkflowFromArgs(t *testing.T) {
	assert.Equal(t, "", GetWorkflowFromArgs([]string{"12"}))
	assert.Equal(t, "lint", GetWorkflowFromArgs([]string{"12", "lint"}))
	assert.Equal(t, "Backend CI", GetWorkflowFromArgs([]string{"12", "Backend", "CI"}))
}

func TestRetryCommandFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		all  bool
		want slash.Command
	}{
		{name: "failed runs", args: []string{"12"}, want: slash.Command{Kind: slash.RetryAll}},
		{name: "named workflow", args: []string{"12", "lint"}, want: slash.Command{Kind: slash.RetryNamed, Workflow: "lint"}},
		{name: "all runs", args: []string{"12", "lint"}, all: true, want: slash.Command{Kind: slash.RetestAll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryCommandFromArgs(tt.args, tt.all))
		})
	}
}

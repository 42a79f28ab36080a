package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad argument %q", "x")
	assert.Equal(t, `bad argument "x"`, err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWrapExitError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitFailure, inner)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, inner)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "usage")))
}

func TestFormatterSuccessJSON(t *testing.T) {
	out := &bytes.Buffer{}
	f := NewOutputFormatter("json", false, out, io.Discard)

	err := f.Success(map[string]int{"steps": 3}, nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["steps"])
}

func TestFormatterSuccessText(t *testing.T) {
	out := &bytes.Buffer{}
	f := NewOutputFormatter("text", false, out, io.Discard)

	err := f.Success(nil, func(w io.Writer) {
		fmt.Fprintln(w, "all good")
	})
	require.NoError(t, err)
	assert.Equal(t, "all good\n", out.String())
}

func TestFormatterErrorJSON(t *testing.T) {
	out := &bytes.Buffer{}
	f := NewOutputFormatter("json", false, out, io.Discard)

	err := f.Error(ExitFailure, "validation_failed", "step %q unknown", "zap")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_failed", resp.Error.Code)
	assert.Equal(t, `step "zap" unknown`, resp.Error.Message)
}

func TestFormatterErrorText(t *testing.T) {
	errOut := &bytes.Buffer{}
	f := NewOutputFormatter("text", false, io.Discard, errOut)

	err := f.Error(ExitFailure, "run_failed", "boom")
	require.Error(t, err)
	assert.Equal(t, "error: boom\n", errOut.String())
}

func TestVerboseLog(t *testing.T) {
	errOut := &bytes.Buffer{}

	quiet := NewOutputFormatter("text", false, io.Discard, errOut)
	quiet.VerboseLog("hidden")
	assert.Empty(t, errOut.String())

	loud := NewOutputFormatter("text", true, io.Discard, errOut)
	loud.VerboseLog("shown %d", 7)
	assert.Equal(t, "shown 7\n", errOut.String())
}

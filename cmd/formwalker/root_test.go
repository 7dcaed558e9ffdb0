package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"

	"github.com/wanmail/formwalker"
	"github.com/wanmail/formwalker/internal/config"
	"github.com/wanmail/formwalker/internal/sessiontest"
)

// quickEnv keeps the walk from sleeping.
var quickEnv = map[string]string{
	"FORMWALKER_STEP_DELAY":  "0s",
	"FORMWALKER_SHORT_DELAY": "0s",
	"FORMWALKER_FINAL_DELAY": "0s",
}

type testState struct {
	*globalState
	stdout, stderr *bytes.Buffer
	session        *sessiontest.Session
	caps           selenium.Capabilities
	executor       string
}

func newTestState(t *testing.T) *testState {
	t.Helper()
	ts := &testState{
		stdout:  new(bytes.Buffer),
		stderr:  new(bytes.Buffer),
		session: sessiontest.New(),
	}
	env := make(map[string]string)
	for k, v := range quickEnv {
		env[k] = v
	}
	ts.globalState = &globalState{
		ctx:    context.Background(),
		fs:     afero.NewMemMapFs(),
		env:    env,
		stdout: ts.stdout,
		stderr: ts.stderr,
		openSession: func(caps selenium.Capabilities, executor string) formwalker.Opener {
			ts.caps, ts.executor = caps, executor
			return ts.session.Opener()
		},
	}
	return ts
}

func TestRunWalk(t *testing.T) {
	ts := newTestState(t)
	require.Equal(t, 0, ts.execute([]string{"--browser", "chrome", "--headless", "--executor", "http://grid:4444/wd/hub"}), ts.stderr.String())

	assert.Equal(t, "http://grid:4444/wd/hub", ts.executor)
	assert.Equal(t, "chrome", ts.caps["browserName"])
	assert.Equal(t, 1, ts.session.Quits)
	assert.Contains(t, ts.session.Calls, "click(Return to index)")
	assert.Empty(t, ts.stdout.String())
}

func TestRunFlagsOverrideEnvironment(t *testing.T) {
	ts := newTestState(t)
	ts.env["FORMWALKER_BROWSER"] = "opera"
	ts.env["FORMWALKER_SETTLE"] = "adaptive"

	require.Equal(t, 0, ts.execute([]string{"--browser", "chrome", "--settle", "fixed"}), ts.stderr.String())
	assert.Equal(t, "chrome", ts.caps["browserName"])
	assert.Equal(t, 1, ts.session.Quits)
}

func TestRunConfigFile(t *testing.T) {
	ts := newTestState(t)
	require.NoError(t, afero.WriteFile(ts.fs, "walk.yaml", []byte(`
browser:
  name: firefox
walk:
  page:
    startURL: http://localhost:8000/
  values:
    city: Lisbon
`), 0644))

	require.Equal(t, 0, ts.execute([]string{"-c", "walk.yaml", "--log-format", "json"}), ts.stderr.String())
	assert.Equal(t, "firefox", ts.caps["browserName"])
	assert.Equal(t, "get(http://localhost:8000/)", ts.session.Calls[0])
	assert.Contains(t, ts.session.Calls, "send_keys(my-datalist, Lisbon)")
}

func TestRunStepFailureExitsZero(t *testing.T) {
	ts := newTestState(t)
	ts.session.FailOn("find(my-file)", errors.New("no such element"))

	assert.Equal(t, 0, ts.execute(nil))
	assert.True(t, strings.HasPrefix(ts.stdout.String(), "An error has occurred: "), ts.stdout.String())
	assert.Equal(t, 1, ts.session.Quits)
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		desc  string
		args  []string
		env   map[string]string
		setup func(*testState)
	}{
		{desc: "unknown browser flag", args: []string{"--browser", "safari"}},
		{desc: "unknown browser env", env: map[string]string{"FORMWALKER_BROWSER": "opera"}},
		{desc: "missing config file", args: []string{"--config", "nope.yaml"}},
		{desc: "bad settle mode", args: []string{"--settle", "adaptive"}},
		{desc: "unexpected argument", args: []string{"extra"}},
		{
			desc: "session unavailable",
			setup: func(ts *testState) {
				ts.openSession = func(selenium.Capabilities, string) formwalker.Opener {
					return func(context.Context) (formwalker.Session, error) {
						return nil, errors.New("session not created")
					}
				}
			},
		},
	}
	for _, test := range tests {
		ts := newTestState(t)
		for k, v := range test.env {
			ts.env[k] = v
		}
		if test.setup != nil {
			test.setup(ts)
		}
		if code := ts.execute(test.args); code != 1 {
			t.Errorf("%s: exit code = %d, want 1", test.desc, code)
		}
		if ts.stderr.Len() == 0 {
			t.Errorf("%s: nothing logged to stderr", test.desc)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	flags := walkFlagSet()
	require.NoError(t, flags.Parse([]string{
		"--browser=firefox",
		"--driver=/opt/geckodriver",
		"--driver-port=4445",
		"--xvfb",
		"--step-delay=10ms",
		"--upload-file=/tmp/x.txt",
	}))
	conf := config.Default()
	require.NoError(t, applyFlags(flags, &conf))

	assert.Equal(t, "firefox", conf.Browser.Name)
	assert.Equal(t, "/opt/geckodriver", conf.Driver.Path)
	assert.Equal(t, 4445, conf.Driver.Port)
	assert.True(t, conf.Driver.FrameBuffer)
	assert.Equal(t, "10ms", conf.Walk.StepDelay.String())
	assert.Equal(t, "/tmp/x.txt", conf.Walk.Values.UploadFile)
	assert.Equal(t, config.Default().Walk.FinalDelay, conf.Walk.FinalDelay, "unset flags leave values alone")
}

func TestEnviron(t *testing.T) {
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, environ([]string{"A=1", "B=x=y", "C=", "=bad"}))
}

func TestFetchRejectsUnknownBrowser(t *testing.T) {
	ts := newTestState(t)
	assert.Equal(t, 1, ts.execute([]string{"fetch-drivers", "--browser", "safari", "--dir", t.TempDir()}))
}

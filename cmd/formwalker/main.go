// Command formwalker walks the Selenium demo web form in a real browser.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newGlobalState(ctx).execute(os.Args[1:])
	stop()
	os.Exit(code)
}

func newGlobalState(ctx context.Context) *globalState {
	return &globalState{
		ctx:    ctx,
		fs:     afero.NewOsFs(),
		env:    environ(os.Environ()),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func environ(kv []string) map[string]string {
	env := make(map[string]string, len(kv))
	for _, s := range kv {
		if i := strings.IndexByte(s, '='); i > 0 {
			env[s[:i]] = s[i+1:]
		}
	}
	return env
}

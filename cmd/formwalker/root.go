package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/blang/semver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/sauce"

	"github.com/wanmail/formwalker"
	"github.com/wanmail/formwalker/internal/config"
	"github.com/wanmail/formwalker/internal/proxy"
)

// globalState is what a command invocation reads from and writes to, kept
// apart from the process so commands can be run in tests.
type globalState struct {
	ctx    context.Context
	fs     afero.Fs
	env    map[string]string
	stdout io.Writer
	stderr io.Writer

	// openSession creates the session opener; formwalker.Remote unless
	// replaced.
	openSession func(caps selenium.Capabilities, executor string) formwalker.Opener
}

// execute runs the command line args and returns the process exit code.
func (gs *globalState) execute(args []string) int {
	logger := logrus.New()
	logger.SetOutput(gs.stderr)

	root := newRootCommand(gs, logger)
	root.SetArgs(args)
	root.SetOut(gs.stdout)
	root.SetErr(gs.stderr)
	if err := root.ExecuteContext(gs.ctx); err != nil {
		logger.WithError(err).Error("formwalker failed")
		return 1
	}
	return 0
}

func newRootCommand(gs *globalState, logger *logrus.Logger) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "formwalker",
		Short: "Fill in and submit the Selenium demo web form",
		Long: `formwalker opens a browser session, walks the demo web form control by
control, submits it, navigates back and closes the browser.

A failing interaction is reported and ends the walk; the exit status is only
non-zero when the configuration is invalid or no browser session could be
started.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(gs.fs, configPath, gs.env)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd.Flags(), &conf); err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return err
			}
			if err := configureLogger(logger, conf.Log); err != nil {
				return err
			}
			return gs.walk(cmd.Context(), conf, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", gs.env["FORMWALKER_CONFIG"], "YAML configuration file")
	cmd.Flags().AddFlagSet(walkFlagSet())
	cmd.AddCommand(newFetchCommand(gs, logger))
	return cmd
}

func walkFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.String("browser", "", "browser to drive: edge, chrome or firefox")
	flags.String("binary", "", "path of the browser executable")
	flags.Bool("headless", false, "run the browser without a window")
	flags.String("min-browser-version", "", "refuse browsers older than this version")
	flags.String("socks-proxy", "", `route browser traffic through a SOCKS5 proxy at host:port, or "local" to start one`)
	flags.String("executor", "", "WebDriver URL of a running Selenium server or driver")
	flags.String("driver", "", "start the driver binary at this path instead of using --executor")
	flags.Int("driver-port", 0, "port the started driver listens on")
	flags.Bool("xvfb", false, "run the started driver inside an Xvfb frame buffer")
	flags.String("start-url", "", "URL of the page linking to the web form")
	flags.String("settle", "", "pacing between interactions: fixed or poll")
	flags.Duration("step-delay", 0, "pause after each interaction in fixed pacing")
	flags.Duration("final-delay", 0, "pause before the browser is closed")
	flags.String("upload-file", "", "file handed to the upload control")
	flags.String("log-level", "", "log level: panic, fatal, error, warn, info, debug or trace")
	flags.String("log-format", "", "log format: text or json")
	return flags
}

// applyFlags overlays the flags set on the command line onto conf.
func applyFlags(flags *pflag.FlagSet, conf *config.Config) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetBool(name)
		}
	}
	str("browser", &conf.Browser.Name)
	str("binary", &conf.Browser.Binary)
	boolean("headless", &conf.Browser.Headless)
	str("min-browser-version", &conf.Browser.MinVersion)
	str("socks-proxy", &conf.Browser.SOCKSProxy)
	str("executor", &conf.Driver.Executor)
	str("driver", &conf.Driver.Path)
	boolean("xvfb", &conf.Driver.FrameBuffer)
	str("start-url", &conf.Walk.Page.StartURL)
	str("settle", &conf.Walk.Settle)
	str("upload-file", &conf.Walk.Values.UploadFile)
	str("log-level", &conf.Log.Level)
	str("log-format", &conf.Log.Format)
	if err == nil && flags.Changed("driver-port") {
		conf.Driver.Port, err = flags.GetInt("driver-port")
	}
	if err == nil && flags.Changed("step-delay") {
		conf.Walk.StepDelay, err = flags.GetDuration("step-delay")
	}
	if err == nil && flags.Changed("final-delay") {
		conf.Walk.FinalDelay, err = flags.GetDuration("final-delay")
	}
	return err
}

func configureLogger(logger *logrus.Logger, conf config.Log) error {
	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	switch strings.ToLower(conf.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return nil
}

// walk sets up the browser side described by conf and runs one walk.
func (gs *globalState) walk(ctx context.Context, conf config.Config, logger *logrus.Logger) error {
	opts := formwalker.BrowserOptions{
		Browser:    conf.Browser.Name,
		Binary:     conf.Browser.Binary,
		Headless:   conf.Browser.Headless,
		Args:       conf.Browser.Args,
		LogLevel:   conf.Browser.LogLevel,
		SOCKSProxy: conf.Browser.SOCKSProxy,
	}
	if s := conf.Browser.Sauce; s != nil {
		opts.Sauce = &sauce.Capabilities{
			Platform:    s.Platform,
			Version:     s.Version,
			TestName:    s.TestName,
			BuildNumber: s.Build,
			Tags:        s.Tags,
		}
	}

	if opts.SOCKSProxy == "local" {
		p, err := proxy.Start("127.0.0.1:0", logger)
		if err != nil {
			return fmt.Errorf("starting SOCKS5 proxy: %w", err)
		}
		defer p.Close()
		opts.SOCKSProxy = p.Addr()
	}

	caps, err := formwalker.NewCapabilities(opts)
	if err != nil {
		return err
	}

	executor := conf.Driver.Executor
	if conf.Driver.Path != "" {
		driverLog := logger.WriterLevel(logrus.DebugLevel)
		defer driverLog.Close()
		svcOpts := []formwalker.ServiceOption{formwalker.ServiceOutput(driverLog)}
		if conf.Driver.FrameBuffer {
			svcOpts = append(svcOpts, formwalker.StartFrameBuffer(formwalker.FrameBufferOptions{ScreenSize: conf.Driver.ScreenSize}))
		}
		svc, err := formwalker.StartDriver(conf.Browser.Name, conf.Driver.Path, conf.Driver.Port, svcOpts...)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Stop(); err != nil {
				logger.WithError(err).Warn("stopping driver")
			}
		}()
		executor = svc.Addr()
	}

	openSession := gs.openSession
	if openSession == nil {
		openSession = func(caps selenium.Capabilities, executor string) formwalker.Opener {
			return formwalker.Remote(caps, executor)
		}
	}
	open := openSession(caps, executor)
	if conf.Browser.MinVersion != "" {
		min, err := semver.ParseTolerant(conf.Browser.MinVersion)
		if err != nil {
			return err
		}
		open = formwalker.RequireBrowser(open, min, logger)
	}

	pacer, err := formwalker.NewPacer(conf.Walk.Settle, conf.Delays(), conf.Walk.PollTimeout, conf.Walk.PollInterval)
	if err != nil {
		return err
	}
	w, err := formwalker.New(open,
		formwalker.Logger(logger),
		formwalker.Output(gs.stdout),
		formwalker.WithPage(conf.Walk.Page),
		formwalker.WithValues(conf.Walk.Values),
		formwalker.WithPacer(pacer),
		formwalker.FinalDelay(conf.Walk.FinalDelay),
		formwalker.ImplicitWait(conf.Walk.ImplicitWait),
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

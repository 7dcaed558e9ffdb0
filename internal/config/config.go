// Package config loads formwalker settings. Values are layered: built-in
// defaults, then an optional YAML file, then FORMWALKER_* environment
// variables. Command line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/wanmail/formwalker"
)

// DefaultDriverPort is the port a locally started driver listens on.
const DefaultDriverPort = 9515

// Config holds everything needed for one run.
type Config struct {
	Browser Browser `yaml:"browser"`
	Driver  Driver  `yaml:"driver"`
	Walk    Walk    `yaml:"walk"`
	Log     Log     `yaml:"log"`
}

// Browser selects and configures the browser.
type Browser struct {
	Name     string   `yaml:"name"`
	Binary   string   `yaml:"binary"`
	Headless bool     `yaml:"headless"`
	Args     []string `yaml:"args"`
	// LogLevel is the browser console log level requested from the driver.
	LogLevel string `yaml:"logLevel"`
	// MinVersion, if set, rejects sessions with an older browser.
	MinVersion string `yaml:"minVersion"`
	// SOCKSProxy routes browser traffic through a SOCKS5 proxy at host:port.
	// "local" starts one in process.
	SOCKSProxy string `yaml:"socksProxy"`
	Sauce      *Sauce `yaml:"sauce"`
}

// Sauce holds the Sauce Labs job settings.
type Sauce struct {
	Platform string   `yaml:"platform"`
	Version  string   `yaml:"version"`
	TestName string   `yaml:"testName"`
	Build    string   `yaml:"build"`
	Tags     []string `yaml:"tags"`
}

// Driver says where sessions are created: a remote executor, or a driver
// binary started locally when Path is set.
type Driver struct {
	Executor    string `yaml:"executor"`
	Path        string `yaml:"path"`
	Port        int    `yaml:"port"`
	FrameBuffer bool   `yaml:"frameBuffer"`
	ScreenSize  string `yaml:"screenSize"`
}

// Walk configures the form walk itself.
type Walk struct {
	Settle       string        `yaml:"settle"`
	StepDelay    time.Duration `yaml:"stepDelay"`
	ShortDelay   time.Duration `yaml:"shortDelay"`
	FinalDelay   time.Duration `yaml:"finalDelay"`
	PollTimeout  time.Duration `yaml:"pollTimeout"`
	PollInterval time.Duration `yaml:"pollInterval"`
	ImplicitWait time.Duration `yaml:"implicitWait"`

	Page   formwalker.Page   `yaml:"page"`
	Values formwalker.Values `yaml:"values"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the stock settings: headful Edge against a local Selenium
// server, fixed pacing, the demo form and values.
func Default() Config {
	d := formwalker.DefaultDelays()
	return Config{
		Browser: Browser{Name: formwalker.Edge},
		Driver: Driver{
			Executor: formwalker.DefaultExecutor,
			Port:     DefaultDriverPort,
		},
		Walk: Walk{
			Settle:       formwalker.PaceFixed,
			StepDelay:    d.Step,
			ShortDelay:   d.Short,
			FinalDelay:   d.Final,
			PollTimeout:  formwalker.DefaultPollTimeout,
			PollInterval: formwalker.DefaultPollInterval,
			ImplicitWait: formwalker.DefaultImplicitWait,
			Page:         formwalker.DefaultPage(),
			Values:       formwalker.DefaultValues(),
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Delays returns the fixed pacing delays.
func (c Config) Delays() formwalker.Delays {
	return formwalker.Delays{Step: c.Walk.StepDelay, Short: c.Walk.ShortDelay, Final: c.Walk.FinalDelay}
}

// Load builds the configuration from the YAML file at path on fs, if path is
// not empty, and the environment in env. The result is not validated, so that
// command line flags can still override it; call Validate once every layer is
// applied.
func Load(fs afero.Fs, path string, env map[string]string) (Config, error) {
	conf := Default()
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return conf, fmt.Errorf("reading config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
			return conf, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	var envConf EnvConfig
	if err := envconfig.Process("", &envConf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return conf, fmt.Errorf("reading environment: %w", err)
	}
	return envConf.Apply(conf)
}

// EnvConfig holds the settings that can be overridden from the environment.
// Unset variables leave the fields invalid.
type EnvConfig struct {
	Browser    null.String `envconfig:"FORMWALKER_BROWSER"`
	Binary     null.String `envconfig:"FORMWALKER_BROWSER_BINARY"`
	Headless   null.Bool   `envconfig:"FORMWALKER_HEADLESS"`
	MinVersion null.String `envconfig:"FORMWALKER_MIN_BROWSER_VERSION"`
	SOCKSProxy null.String `envconfig:"FORMWALKER_SOCKS_PROXY"`

	Executor   null.String `envconfig:"FORMWALKER_EXECUTOR"`
	DriverPath null.String `envconfig:"FORMWALKER_DRIVER_PATH"`
	DriverPort null.Int    `envconfig:"FORMWALKER_DRIVER_PORT"`
	Xvfb       null.Bool   `envconfig:"FORMWALKER_XVFB"`

	StartURL   null.String `envconfig:"FORMWALKER_START_URL"`
	Settle     null.String `envconfig:"FORMWALKER_SETTLE"`
	StepDelay  null.String `envconfig:"FORMWALKER_STEP_DELAY"`
	ShortDelay null.String `envconfig:"FORMWALKER_SHORT_DELAY"`
	FinalDelay null.String `envconfig:"FORMWALKER_FINAL_DELAY"`
	UploadFile null.String `envconfig:"FORMWALKER_UPLOAD_FILE"`

	LogLevel  null.String `envconfig:"FORMWALKER_LOG_LEVEL"`
	LogFormat null.String `envconfig:"FORMWALKER_LOG_FORMAT"`
}

// Apply overlays the valid fields of e onto conf.
func (e EnvConfig) Apply(conf Config) (Config, error) {
	setString := func(dst *string, v null.String) {
		if v.Valid {
			*dst = v.String
		}
	}
	setString(&conf.Browser.Name, e.Browser)
	setString(&conf.Browser.Binary, e.Binary)
	setString(&conf.Browser.MinVersion, e.MinVersion)
	setString(&conf.Browser.SOCKSProxy, e.SOCKSProxy)
	setString(&conf.Driver.Executor, e.Executor)
	setString(&conf.Driver.Path, e.DriverPath)
	setString(&conf.Walk.Page.StartURL, e.StartURL)
	setString(&conf.Walk.Settle, e.Settle)
	setString(&conf.Walk.Values.UploadFile, e.UploadFile)
	setString(&conf.Log.Level, e.LogLevel)
	setString(&conf.Log.Format, e.LogFormat)
	if e.Headless.Valid {
		conf.Browser.Headless = e.Headless.Bool
	}
	if e.Xvfb.Valid {
		conf.Driver.FrameBuffer = e.Xvfb.Bool
	}
	if e.DriverPort.Valid {
		conf.Driver.Port = int(e.DriverPort.Int64)
	}
	for _, d := range []struct {
		dst  *time.Duration
		v    null.String
		name string
	}{
		{&conf.Walk.StepDelay, e.StepDelay, "FORMWALKER_STEP_DELAY"},
		{&conf.Walk.ShortDelay, e.ShortDelay, "FORMWALKER_SHORT_DELAY"},
		{&conf.Walk.FinalDelay, e.FinalDelay, "FORMWALKER_FINAL_DELAY"},
	} {
		if !d.v.Valid {
			continue
		}
		v, err := time.ParseDuration(d.v.String)
		if err != nil {
			return conf, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = v
	}
	return conf, nil
}

var browsers = map[string]bool{formwalker.Edge: true, formwalker.Chrome: true, formwalker.Firefox: true}

var logFormats = map[string]bool{"text": true, "json": true}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !browsers[strings.ToLower(c.Browser.Name)] {
		return fmt.Errorf("browser.name: unsupported browser %q", c.Browser.Name)
	}
	if c.Browser.MinVersion != "" {
		if _, err := semver.ParseTolerant(c.Browser.MinVersion); err != nil {
			return fmt.Errorf("browser.minVersion: %w", err)
		}
	}
	if c.Driver.Path == "" && c.Driver.Executor == "" {
		return errors.New("driver: either executor or path must be set")
	}
	if c.Driver.Port <= 0 || c.Driver.Port > 65535 {
		return fmt.Errorf("driver.port: %d is out of range", c.Driver.Port)
	}
	if c.Driver.ScreenSize != "" && !c.Driver.FrameBuffer {
		return errors.New("driver.screenSize is only used with driver.frameBuffer")
	}
	if _, err := formwalker.NewPacer(c.Walk.Settle, c.Delays(), c.Walk.PollTimeout, c.Walk.PollInterval); err != nil {
		return fmt.Errorf("walk.settle: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"walk.stepDelay":    c.Walk.StepDelay,
		"walk.shortDelay":   c.Walk.ShortDelay,
		"walk.finalDelay":   c.Walk.FinalDelay,
		"walk.implicitWait": c.Walk.ImplicitWait,
	} {
		if d < 0 {
			return fmt.Errorf("%s: negative duration %s", name, d)
		}
	}
	if c.Walk.Settle == formwalker.PacePoll && (c.Walk.PollTimeout <= 0 || c.Walk.PollInterval <= 0) {
		return errors.New("walk: pollTimeout and pollInterval must be positive")
	}
	if c.Walk.Page.StartURL == "" {
		return errors.New("walk.page.startURL must be set")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !logFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

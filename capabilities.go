package formwalker

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"
)

// Supported browsers.
const (
	Edge    = "edge"
	Chrome  = "chrome"
	Firefox = "firefox"
)

// EdgeCapabilitiesKey is the key of the Edge-specific options. Edge accepts
// the same option shape as Chrome.
const EdgeCapabilitiesKey = "ms:edgeOptions"

// BrowserOptions describes the browser a session should be started with.
type BrowserOptions struct {
	// Browser is one of Edge, Chrome or Firefox.
	Browser string
	// Binary is the path of the browser executable; the driver picks one when
	// empty.
	Binary   string
	Headless bool
	Args     []string
	// LogLevel, if set, is the browser log level requested from the driver.
	LogLevel string
	// SOCKSProxy, if set, is the host:port of a SOCKS5 proxy all browser
	// traffic goes through.
	SOCKSProxy string
	// Sauce, if set, is merged into the capabilities for Sauce Labs.
	Sauce *sauce.Capabilities
}

var logLevels = map[string]log.Level{
	"off":     log.Off,
	"severe":  log.Severe,
	"warning": log.Warning,
	"info":    log.Info,
	"debug":   log.Debug,
	"all":     log.All,
}

// NewCapabilities builds the WebDriver capabilities for o.
func NewCapabilities(o BrowserOptions) (selenium.Capabilities, error) {
	caps := selenium.Capabilities{}
	args := append([]string(nil), o.Args...)

	switch strings.ToLower(o.Browser) {
	case "", Edge:
		caps["browserName"] = "MicrosoftEdge"
		if o.Headless {
			args = append(args, "--headless=new")
		}
		caps[EdgeCapabilitiesKey] = chrome.Capabilities{Path: o.Binary, Args: args, W3C: true}
	case Chrome:
		caps["browserName"] = "chrome"
		if o.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Path: o.Binary, Args: args, W3C: true})
	case Firefox:
		caps["browserName"] = "firefox"
		if o.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Binary: o.Binary, Args: args})
	default:
		return nil, fmt.Errorf("unsupported browser %q", o.Browser)
	}

	if o.LogLevel != "" {
		level, ok := logLevels[strings.ToLower(o.LogLevel)]
		if !ok {
			return nil, fmt.Errorf("unknown browser log level %q", o.LogLevel)
		}
		caps.SetLogLevel(log.Browser, level)
	}

	if o.SOCKSProxy != "" {
		caps.AddProxy(selenium.Proxy{
			Type:         selenium.Manual,
			SOCKS:        o.SOCKSProxy,
			SOCKSVersion: 5,
		})
	}

	if o.Sauce != nil {
		m, err := o.Sauce.ToMap()
		if err != nil {
			return nil, fmt.Errorf("encoding Sauce Labs capabilities: %w", err)
		}
		for k, v := range m {
			caps[k] = v
		}
	}
	return caps, nil
}

package formwalker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"
)

func TestNewCapabilities(t *testing.T) {
	tests := []struct {
		desc string
		in   BrowserOptions
		want selenium.Capabilities
	}{
		{
			desc: "edge is the default",
			in:   BrowserOptions{Headless: true},
			want: selenium.Capabilities{
				"browserName":       "MicrosoftEdge",
				EdgeCapabilitiesKey: chrome.Capabilities{Args: []string{"--headless=new"}, W3C: true},
			},
		},
		{
			desc: "chrome with binary and args",
			in:   BrowserOptions{Browser: "Chrome", Binary: "/opt/chrome", Args: []string{"--no-sandbox"}},
			want: selenium.Capabilities{
				"browserName":                   "chrome",
				chrome.CapabilitiesKey:           chrome.Capabilities{Path: "/opt/chrome", Args: []string{"--no-sandbox"}, W3C: true},
				chrome.DeprecatedCapabilitiesKey: chrome.Capabilities{Path: "/opt/chrome", Args: []string{"--no-sandbox"}, W3C: true},
			},
		},
		{
			desc: "headless firefox",
			in:   BrowserOptions{Browser: Firefox, Headless: true},
			want: selenium.Capabilities{
				"browserName":          "firefox",
				firefox.CapabilitiesKey: firefox.Capabilities{Args: []string{"-headless"}},
			},
		},
		{
			desc: "socks proxy",
			in:   BrowserOptions{Browser: Edge, SOCKSProxy: "127.0.0.1:1080"},
			want: selenium.Capabilities{
				"browserName":       "MicrosoftEdge",
				EdgeCapabilitiesKey: chrome.Capabilities{W3C: true},
				"proxy":             selenium.Proxy{Type: selenium.Manual, SOCKS: "127.0.0.1:1080", SOCKSVersion: 5},
			},
		},
		{
			desc: "browser log level",
			in:   BrowserOptions{Browser: Chrome, LogLevel: "Warning"},
			want: selenium.Capabilities{
				"browserName":                   "chrome",
				chrome.CapabilitiesKey:           chrome.Capabilities{W3C: true},
				chrome.DeprecatedCapabilitiesKey: chrome.Capabilities{W3C: true},
				log.CapabilitiesKey:              log.Capabilities{log.Browser: log.Warning},
			},
		},
		{
			desc: "sauce labs",
			in:   BrowserOptions{Browser: Firefox, Sauce: &sauce.Capabilities{Platform: "Linux", TestName: "walk"}},
			want: selenium.Capabilities{
				"browserName":           "firefox",
				firefox.CapabilitiesKey: firefox.Capabilities{},
				"platform":              "Linux",
				"name":                  "walk",
			},
		},
	}
	for _, test := range tests {
		got, err := NewCapabilities(test.in)
		if err != nil {
			t.Errorf("%s: NewCapabilities() returned error: %v", test.desc, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: NewCapabilities() diff (-want/+got):\n%s", test.desc, diff)
		}
	}
}

func TestNewCapabilitiesErrors(t *testing.T) {
	for _, o := range []BrowserOptions{
		{Browser: "safari"},
		{Browser: Chrome, LogLevel: "verbose"},
	} {
		if _, err := NewCapabilities(o); err == nil {
			t.Errorf("NewCapabilities(%+v) returned nil error", o)
		}
	}
}

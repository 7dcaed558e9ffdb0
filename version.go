package formwalker

import (
	"context"
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/sirupsen/logrus"
)

// BrowserVersion reads the browser version reported by the driver for s.
func BrowserVersion(s Session) (semver.Version, error) {
	wd, ok := WebDriver(s)
	if !ok {
		return semver.Version{}, fmt.Errorf("session %T does not report capabilities", s)
	}
	caps, err := wd.Capabilities()
	if err != nil {
		return semver.Version{}, err
	}
	for _, key := range []string{"browserVersion", "version"} {
		if v, ok := caps[key].(string); ok && v != "" {
			return ParseBrowserVersion(v)
		}
	}
	return semver.Version{}, fmt.Errorf("driver did not report a browser version")
}

// ParseBrowserVersion parses versions such as "120.0.6099.109". Components
// past major.minor.patch are ignored.
func ParseBrowserVersion(v string) (semver.Version, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.ParseTolerant(strings.Join(parts, "."))
}

// RequireBrowser wraps open so that sessions whose browser is older than min
// are closed and reported as unavailable.
func RequireBrowser(open Opener, min semver.Version, log logrus.FieldLogger) Opener {
	return func(ctx context.Context) (Session, error) {
		s, err := open(ctx)
		if err != nil {
			return nil, err
		}
		got, err := BrowserVersion(s)
		if err != nil {
			s.Quit()
			return nil, fmt.Errorf("checking browser version: %w", err)
		}
		log.WithField("browserVersion", got.String()).Info("browser started")
		if got.LT(min) {
			s.Quit()
			return nil, fmt.Errorf("browser version %s is older than required %s", got, min)
		}
		return s, nil
	}
}

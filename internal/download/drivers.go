package download

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/url"
	"path"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/go-github/v27/github"
)

// EdgeDriverURL is the download location of msedgedriver builds. %s is the
// driver version.
const EdgeDriverURL = "https://msedgedriver.azureedge.net/%s/edgedriver_linux64.zip"

// EdgeDriver describes the msedgedriver build matching an Edge version.
// Drivers are released in lockstep with the browser.
func EdgeDriver(version string) (File, error) {
	if version == "" {
		return File{}, fmt.Errorf("no Edge driver version given")
	}
	return File{
		URL:  fmt.Sprintf(EdgeDriverURL, url.PathEscape(version)),
		Name: "edgedriver.zip",
	}, nil
}

// Chromium snapshot bucket layout.
const (
	snapshotBucket       = "chromium-browser-snapshots"
	snapshotPrefix       = "Linux_x64"
	snapshotLastChange   = "Linux_x64/LAST_CHANGE"
	chromeDriverArchive  = "chromedriver_linux64.zip"
	chromeDriverUnpacked = "chromedriver_linux64/chromedriver"
)

// ChromeDriver describes the chromedriver of a Chromium snapshot build. The
// newest build is used when build is empty.
func ChromeDriver(ctx context.Context, client *storage.Client, build string) (File, error) {
	bkt := client.Bucket(snapshotBucket)
	if build == "" {
		r, err := bkt.Object(snapshotLastChange).NewReader(ctx)
		if err != nil {
			return File{}, fmt.Errorf("reading gs://%s/%s: %w", snapshotBucket, snapshotLastChange, err)
		}
		defer r.Close()
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return File{}, fmt.Errorf("reading gs://%s/%s: %w", snapshotBucket, snapshotLastChange, err)
		}
		build = strings.TrimSpace(string(data))
	}

	name := path.Join(snapshotPrefix, build, chromeDriverArchive)
	attrs, err := bkt.Object(name).Attrs(ctx)
	if err != nil {
		return File{}, fmt.Errorf("looking up gs://%s/%s: %w", snapshotBucket, name, err)
	}
	return File{
		URL:      attrs.MediaLink,
		Name:     "chromedriver.zip",
		Hash:     hex.EncodeToString(attrs.MD5),
		HashType: "md5",
		Rename:   []string{chromeDriverUnpacked, "chromedriver"},
	}, nil
}

var geckodriverAsset = regexp.MustCompile(`^geckodriver-.*-linux64\.tar\.gz$`)

// Geckodriver describes the Linux build of the latest geckodriver release.
func Geckodriver(ctx context.Context, client *github.Client) (File, error) {
	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, err
	}
	for _, a := range rel.Assets {
		if !geckodriverAsset.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		return File{URL: u, Name: "geckodriver.tar.gz"}, nil
	}
	return File{}, fmt.Errorf("no linux64 asset in geckodriver release %s", rel.GetTagName())
}

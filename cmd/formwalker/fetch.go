package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/wanmail/formwalker"
	"github.com/wanmail/formwalker/internal/download"
)

type fetchOptions struct {
	dir         string
	browsers    []string
	edgeVersion string
	chromeBuild string
}

func newFetchCommand(gs *globalState, logger *logrus.Logger) *cobra.Command {
	o := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch-drivers",
		Short: "Download browser driver binaries",
		Long: `Download the driver binaries for the selected browsers into a directory:
msedgedriver for a given Edge version, chromedriver from the Chromium snapshot
bucket and the latest geckodriver release.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// glog refuses to log before the standard flag set is parsed.
			flag.CommandLine.Parse(nil)
			defer glog.Flush()

			files, err := o.resolve(cmd.Context(), logger)
			if err != nil {
				return err
			}
			f := &download.Fetcher{Dir: o.dir}
			if err := f.FetchAll(cmd.Context(), files); err != nil {
				return err
			}
			logger.WithField("dir", o.dir).Infof("fetched %d driver archives", len(files))
			return nil
		},
	}
	cmd.Flags().StringVar(&o.dir, "dir", ".", "directory to download into")
	cmd.Flags().StringSliceVar(&o.browsers, "browser", []string{formwalker.Edge, formwalker.Chrome, formwalker.Firefox}, "browsers to fetch drivers for")
	cmd.Flags().StringVar(&o.edgeVersion, "edge-version", gs.env["FORMWALKER_EDGE_VERSION"], "Edge version to fetch msedgedriver for")
	cmd.Flags().StringVar(&o.chromeBuild, "chrome-build", "", "Chromium snapshot build; the latest when empty")
	cmd.Flags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

// resolve works out what to download for the selected browsers.
func (o *fetchOptions) resolve(ctx context.Context, logger logrus.FieldLogger) ([]download.File, error) {
	var files []download.File
	for _, b := range o.browsers {
		var (
			file download.File
			err  error
		)
		switch strings.ToLower(b) {
		case formwalker.Edge:
			file, err = download.EdgeDriver(o.edgeVersion)
		case formwalker.Chrome:
			var client *storage.Client
			client, err = storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
			if err == nil {
				file, err = download.ChromeDriver(ctx, client, o.chromeBuild)
				client.Close()
			}
		case formwalker.Firefox:
			file, err = download.Geckodriver(ctx, github.NewClient(nil))
		default:
			return nil, fmt.Errorf("no driver known for browser %q", b)
		}
		if err != nil {
			return nil, fmt.Errorf("%s driver: %w", b, err)
		}
		logger.WithField("browser", b).WithField("url", file.URL).Debug("resolved driver")
		files = append(files, file)
	}
	return files, nil
}

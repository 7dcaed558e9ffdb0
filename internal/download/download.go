// Package download fetches browser driver binaries into a local directory.
package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// File describes how to download one driver archive.
type File struct {
	URL  string
	Name string
	// Hash is the expected hex digest of the download. Empty disables the
	// check and always downloads.
	Hash string
	// HashType is "md5", "sha1" or "sha256" (the default).
	HashType string
	// Rename, if set, moves Rename[0] to Rename[1] after unpacking. Both are
	// relative to the target directory.
	Rename []string
}

// newCommand is swapped out by tests.
var newCommand = exec.CommandContext

// Fetcher downloads files into Dir.
type Fetcher struct {
	// Dir is the target directory; the current directory when empty.
	Dir    string
	Client *http.Client
}

func (f *Fetcher) path(name string) string {
	if f.Dir != "" {
		return filepath.Join(f.Dir, name)
	}
	return name
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// Fetch downloads file unless an identical copy is already present, then
// unpacks it.
func (f *Fetcher) Fetch(ctx context.Context, file File) error {
	if file.Hash != "" && f.sameHash(file) {
		glog.Infof("Skipping %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := f.download(ctx, file); err != nil {
			return err
		}
	}
	if err := f.unpack(ctx, file); err != nil {
		return err
	}
	if len(file.Rename) == 2 {
		from, to := f.path(file.Rename[0]), f.path(file.Rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to)
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("renaming %q to %q: %w", from, to, err)
		}
	}
	return nil
}

// FetchAll fetches files concurrently and returns the first error.
func (f *Fetcher) FetchAll(ctx context.Context, files []File) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := f.Fetch(ctx, file); err != nil {
				return fmt.Errorf("fetching %s: %w", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func newHash(kind string) hash.Hash {
	switch strings.ToLower(kind) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	}
	return sha256.New()
}

func (f *Fetcher) download(ctx context.Context, file File) (err error) {
	out, err := os.Create(f.path(file.Name))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	req, err := http.NewRequest(http.MethodGet, file.URL, nil)
	if err != nil {
		return err
	}
	resp, err := f.client().Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("downloading %q: %w", file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %q: %s", file.URL, resp.Status)
	}

	h := newHash(file.HashType)
	if _, err := io.Copy(io.MultiWriter(out, h), resp.Body); err != nil {
		return fmt.Errorf("downloading %q: %w", file.URL, err)
	}
	if file.Hash == "" {
		return nil
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("%s: got hash %q, want %q", file.Name, sum, file.Hash)
	}
	return nil
}

func (f *Fetcher) sameHash(file File) bool {
	in, err := os.Open(f.path(file.Name))
	if err != nil {
		return false
	}
	defer in.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, in); err != nil {
		return false
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		glog.Warningf("File %q: got hash %q, want %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func (f *Fetcher) unpack(ctx context.Context, file File) error {
	dir := "."
	if f.Dir != "" {
		dir = f.Dir
	}
	var args []string
	switch path.Ext(file.Name) {
	case ".zip":
		args = []string{"unzip", "-o", "-d", dir, f.path(file.Name)}
	case ".gz":
		args = []string{"tar", "-xzf", f.path(file.Name), "-C", dir}
	case ".bz2":
		args = []string{"tar", "-xjf", f.path(file.Name), "-C", dir}
	default:
		return nil
	}
	glog.Infof("Unpacking %q", file.Name)
	if out, err := newCommand(ctx, args[0], args[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("unpacking %q: %v: %s", file.Name, err, out)
	}
	return nil
}

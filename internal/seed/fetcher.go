// Package seed downloads and caches the CSV seed files that feed the
// DuckLake catalog.
package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// Seed names one cacheable seed file and where to fetch it from.
type Seed struct {
	Filename string
	URL      string
}

// TableName derives the catalog table name for a seed file: the base
// name with its extension stripped, so raw_orders.csv becomes raw_orders.
func TableName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Stats reports what Ensure did.
type Stats struct {
	Downloaded int
	Cached     int
}

// Fetcher ensures seed files exist in a local cache directory. A file
// already in the cache is trusted as is: no revalidation, no retries,
// no backoff. The first failed download aborts the run; files fetched
// before the failure stay in the cache.
type Fetcher struct {
	CacheDir string

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Out receives one status line per seed plus download progress.
	// Defaults to io.Discard.
	Out io.Writer
}

// Ensure makes every seed present in the cache, downloading the ones
// that are missing, in order.
func (f *Fetcher) Ensure(ctx context.Context, seeds []Seed) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create seed cache %s: %w", f.CacheDir, err)
	}

	for _, s := range seeds {
		target := filepath.Join(f.CacheDir, s.Filename)
		if _, err := os.Stat(target); err == nil {
			fmt.Fprintf(f.out(), "[cached] %s\n", s.Filename)
			stats.Cached++
			continue
		}
		if err := f.fetch(ctx, s, target); err != nil {
			return stats, fmt.Errorf("failed to fetch %s: %w", s.Filename, err)
		}
		fmt.Fprintf(f.out(), "[fetched] %s\n", s.Filename)
		stats.Downloaded++
	}

	return stats, nil
}

func (f *Fetcher) fetch(ctx context.Context, s Seed, target string) error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, s.URL)
	}

	// The body lands in a partial file that is renamed into place only
	// once fully written; an interrupted download must not look cached
	// on the next run.
	partial := fmt.Sprintf("%s.partial-%s", target, uuid.NewString())
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create %s: %w", partial, err)
	}

	bar := f.progressBar(resp.ContentLength, s.Filename)
	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		out.Close()
		os.Remove(partial)
		return fmt.Errorf("download %s: %w", s.URL, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("close %s: %w", partial, err)
	}
	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return fmt.Errorf("move %s into cache: %w", partial, err)
	}
	return nil
}

func (f *Fetcher) progressBar(total int64, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(f.out()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
	)
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) out() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return io.Discard
}

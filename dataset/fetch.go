package dataset

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/f1report/config"
)

// DefaultDataset is the Kaggle reference of the championship archive.
const DefaultDataset = "rohanrao/formula-1-world-championship-1950-2020"

// DefaultKaggleURL is the public Kaggle API base.
const DefaultKaggleURL = "https://www.kaggle.com/api/v1"

// FetchOptions configures Fetch.
type FetchOptions struct {
	// Dataset is the owner/slug reference, e.g. DefaultDataset.
	Dataset string
	// BaseURL is the Kaggle API base; DefaultKaggleURL when empty.
	BaseURL  string
	Username string
	Key      string
	// Dir receives the extracted files.
	Dir string
	// Force downloads even when Dir already exists.
	Force bool
	// Client defaults to an http.Client with a ten minute timeout.
	Client *http.Client
}

// FetchOptionsFor builds FetchOptions from cfg. When no Kaggle credentials
// are configured they are read from ~/.kaggle/kaggle.json if it exists.
func FetchOptionsFor(cfg *config.Config, log *zap.Logger) FetchOptions {
	opt := FetchOptions{
		Dataset:  cfg.Dataset,
		BaseURL:  cfg.KaggleURL,
		Username: cfg.KaggleUsername,
		Key:      cfg.KaggleKey,
		Dir:      cfg.DataDir,
	}
	if opt.Username == "" && opt.Key == "" {
		user, key, err := KaggleCredentials("")
		switch {
		case err == nil:
			opt.Username, opt.Key = user, key
		case log != nil:
			log.Debug("no kaggle credentials", zap.Error(err))
		}
	}
	return opt
}

// Fetch makes sure the archive is extracted into opt.Dir. When the directory
// exists and Force is false nothing is downloaded. Otherwise the zip is
// downloaded next to Dir, extracted, and removed. One attempt is made; any
// failure wraps ErrDownload.
func Fetch(ctx context.Context, opt FetchOptions, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Dir == "" {
		return fmt.Errorf("%w: extract directory not set", ErrDownload)
	}
	if !opt.Force {
		if st, err := os.Stat(opt.Dir); err == nil && st.IsDir() {
			log.Debug("dataset already extracted", zap.String("dir", opt.Dir))
			return nil
		}
	}
	if opt.Dataset == "" {
		opt.Dataset = DefaultDataset
	}
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultKaggleURL
	}
	if opt.Client == nil {
		opt.Client = &http.Client{Timeout: 10 * time.Minute}
	}

	zipPath := filepath.Join(filepath.Dir(filepath.Clean(opt.Dir)), filepath.Base(opt.Dataset)+".zip")

	log.Info("downloading dataset", zap.String("dataset", opt.Dataset), zap.String("to", zipPath))
	if err := download(ctx, opt, zipPath); err != nil {
		_ = os.Remove(zipPath)
		return err
	}
	defer func() {
		log.Info("cleaning up", zap.String("file", zipPath))
		if err := os.Remove(zipPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("remove archive", zap.Error(err))
		}
	}()

	_, statErr := os.Stat(opt.Dir)
	created := errors.Is(statErr, fs.ErrNotExist)

	log.Info("extracting dataset", zap.String("dir", opt.Dir))
	n, err := extract(zipPath, opt.Dir)
	if err != nil {
		if created {
			_ = os.RemoveAll(opt.Dir)
		}
		return err
	}
	log.Info("dataset ready", zap.String("dir", opt.Dir), zap.Int("files", n))
	return nil
}

func download(ctx context.Context, opt FetchOptions, dst string) error {
	u, err := url.JoinPath(opt.BaseURL, "datasets", "download", opt.Dataset)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if opt.Username != "" || opt.Key != "" {
		req.SetBasicAuth(opt.Username, opt.Key)
	}

	resp, err := opt.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: %s", ErrDownload, u, resp.Status)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrDownload, dst, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	return nil
}

// extract unpacks src into dir and returns the number of files written.
// Entries that would land outside dir are rejected.
func extract(src, dir string) (int, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open archive: %w", ErrDownload, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDownload, err)
	}

	n := 0
	for _, zf := range zr.File {
		target := filepath.Join(dir, zf.Name)
		if !withinDir(dir, target) {
			return n, fmt.Errorf("%w: archive entry %q escapes %s", ErrDownload, zf.Name, dir)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return n, fmt.Errorf("%w: %w", ErrDownload, err)
			}
			continue
		}
		if err := writeEntry(zf, target); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writeEntry(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownload, zf.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: %s: %w", ErrDownload, zf.Name, err)
	}
	return out.Close()
}

func withinDir(dir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// KaggleCredentials reads a kaggle.json token file ({"username", "key"}).
// An empty path means ~/.kaggle/kaggle.json.
func KaggleCredentials(path string) (username, key string, err error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		path = filepath.Join(home, ".kaggle", "kaggle.json")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var tok struct {
		Username string `json:"username"`
		Key      string `json:"key"`
	}
	if err := json.Unmarshal(b, &tok); err != nil {
		return "", "", fmt.Errorf("parse %s: %w", path, err)
	}
	return tok.Username, tok.Key, nil
}

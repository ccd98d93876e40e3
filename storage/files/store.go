// Package files stores uploaded files on an afero filesystem.
package files

import (
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type Store struct {
	fs      afero.Fs
	baseURL string
}

// NewStore returns a Store writing to the root of fs and serving files under baseURL.
func NewStore(fs afero.Fs, baseURL string) *Store {
	return &Store{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewDiskStore returns a Store rooted at dir, which is created if needed.
func NewDiskStore(dir, baseURL string) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating uploads dir %s", dir)
	}
	return NewStore(afero.NewBasePathFs(osFs, dir), baseURL), nil
}

func clean(name string) (string, error) {
	name = path.Clean("/" + name)
	if name == "/" {
		return "", errors.New("empty file name")
	}
	return name, nil
}

// Save writes r to name and returns the URL the file is served at.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	name, err := clean(name)
	if err != nil {
		return "", err
	}
	if dir := path.Dir(name); dir != "/" {
		if err = s.fs.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "creating file dir")
		}
	}
	if err = afero.WriteReader(s.fs, name, r); err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	return s.URL(name), nil
}

func (s *Store) URL(name string) string {
	name, _ = clean(name)
	return s.baseURL + name
}

func (s *Store) Exists(name string) (bool, error) {
	name, err := clean(name)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func (s *Store) Remove(name string) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	if err = s.fs.Remove(name); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", name)
	}
	return nil
}

// Handler serves the stored files; mount it under the store's base URL.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.baseURL, http.FileServer(afero.NewHttpFs(s.fs).Dir("/")))
}

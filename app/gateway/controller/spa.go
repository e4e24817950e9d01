package controller

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
)

const indexFile = "index.html"

// HandleSPA serves files from the public directory and falls back to the
// entry document for anything that is not a regular file.
func (c *Controller) HandleSPA(w http.ResponseWriter, r *http.Request) {
	// Clean against a rooted path so ".." can never climb out of Public.
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

	if name != "" && fs.ValidPath(name) {
		if info, err := fs.Stat(c.Public, name); err == nil && info.Mode().IsRegular() {
			if err := c.serveFile(w, r, name); err == nil {
				return
			}
		}
	}

	if err := c.serveFile(w, r, indexFile); err != nil {
		c.App.Logger.Error("Unable to serve entry document", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// serveFile writes name from Public through http.ServeContent.
func (c *Controller) serveFile(w http.ResponseWriter, r *http.Request, name string) error {
	f, err := c.Public.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		bz, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(bz)
	}

	http.ServeContent(w, r, path.Base(name), info.ModTime(), content)
	return nil
}

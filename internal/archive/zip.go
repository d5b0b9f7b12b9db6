// Package archive bundles generated report folders into ZIP files.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Write zips every regular file under root into w. Entry names are
// slash separated paths relative to root. A file at skip is left out so
// the archive can live inside the tree it bundles.
func Write(root string, w io.Writer, skip string) error {
	zw := zip.NewWriter(w)
	skipAbs := ""
	if skip != "" {
		if abs, err := filepath.Abs(skip); err == nil {
			skipAbs = abs
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if skipAbs != "" {
			if abs, err := filepath.Abs(path); err == nil && abs == skipAbs {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(fw, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to archive %s: %w", root, err)
	}
	return zw.Close()
}

// Save zips root into the file at dest, which may sit inside root
func Save(root, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := Write(root, f, dest); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Names lists the entry names of a ZIP payload
func Names(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

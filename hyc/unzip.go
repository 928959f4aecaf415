/*
Copyright © 2023 the Swath authors.
This file is part of Swath.

Swath is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Swath is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Swath.  If not, see <http://www.gnu.org/licenses/>.
*/

package hyc

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// unzip extracts a zipped L1 product into a fresh temporary directory
// and returns the directory and the path of the .he5 member. The
// directory is removed again on every failure path; on success the
// caller owns it.
func unzip(filename string) (dir, path string, err error) {
	dir, err = os.MkdirTemp("", "hyc")
	if err != nil {
		return "", "", fmt.Errorf("hyc: creating extraction directory: %v", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	zr, err := zip.OpenReader(filename)
	if err != nil {
		return "", "", fmt.Errorf("hyc: opening %s: %v", filename, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err = extractFile(dir, f); err != nil {
			return "", "", err
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.he5"))
	if err != nil {
		return "", "", err
	}
	if len(matches) == 0 {
		err = fmt.Errorf("hyc: no .he5 file in %s", filename)
		return "", "", err
	}
	return dir, matches[0], nil
}

func extractFile(dir string, f *zip.File) error {
	name := filepath.Join(dir, f.Name)
	if !strings.HasPrefix(name, filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("hyc: archive member %q escapes extraction directory", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(name, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

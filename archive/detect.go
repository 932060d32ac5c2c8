// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-ecm2.
//
// go-ecm2 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ecm2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ecm2.  If not, see <https://www.gnu.org/licenses/>.

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// imageExtensions are file extensions that indicate a raw disc image track,
// as opposed to a cue sheet, log, or other sidecar file an image is usually
// packaged with. This only includes unambiguous extensions that can be
// identified without reading the file.
var imageExtensions = map[string]bool{
	".bin": true,
	".img": true,
	".iso": true,
	".raw": true,
}

// IsImageFile checks if a filename has a recognized raw disc image extension.
func IsImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return imageExtensions[ext]
}

// DetectImageFile finds the first disc image track in an archive.
// It scans the archive's file list and returns the path to the first entry
// that has a recognized image extension. When an archive bundles several
// tracks (e.g. a multi-track cue sheet), the caller is expected to pick the
// specific entry via Path.InternalPath instead of relying on detection.
func DetectImageFile(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsImageFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoImageFilesError{Archive: "archive"}
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package manifest implements package-root discovery only. Parsing the
// manifest file's contents (name, version, dependencies) is explicitly out
// of scope (spec.md §1, "package manifest and lockfile readers"); this
// package exists because the in-scope module resolver (pkg/resolve, spec.md
// §4.4) needs to find the package root directory regardless.
package manifest

import (
	"os"
	"path/filepath"
)

// FileName is the manifest file the discovery walk looks for.
const FileName = "kestrel.toml"

// FindRoot discovers the package root for entry: the nearest ancestor
// directory containing a manifest file, or, failing that, the nearest
// ancestor whose "src/" subtree contains entry (spec.md §4.4).
func FindRoot(entry string) (string, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(abs)

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	dir = filepath.Dir(abs)

	for {
		if info, err := os.Stat(filepath.Join(dir, "src")); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return filepath.Dir(abs), nil
}

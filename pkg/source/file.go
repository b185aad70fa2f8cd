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
package source

import "os"

// File represents a single source file, held by value for the duration of
// the stage that consumes it (spec.md §5 resource model).
type File struct {
	id       FileId
	filename string
	contents []byte
}

// Filename returns the name this file was read from (or synthesised with).
func (f *File) Filename() string {
	return f.filename
}

// Id returns the identifier assigned to this file by its owning Set.
func (f *File) Id() FileId {
	return f.id
}

// Contents returns the raw bytes of this file.
func (f *File) Contents() []byte {
	return f.contents
}

// Text returns the span's substring within this file's contents.
func (f *File) Text(span Span) string {
	return string(f.contents[span.Start:span.End])
}

// Set owns a collection of source files, assigning each a stable FileId as
// it is added.  Mirrors pkg/util/source's File/Filename/Contents accessors,
// generalised with the numeric FileId the data model (spec.md §3) requires.
type Set struct {
	files []File
}

// NewSet constructs an empty file set.
func NewSet() *Set {
	return &Set{}
}

// Add registers a new source file and returns its assigned id.
func (s *Set) Add(filename string, contents []byte) FileId {
	id := FileId(len(s.files))
	s.files = append(s.files, File{id, filename, contents})

	return id
}

// AddFile is a convenience wrapper reading a file from disk before adding
// it, mirroring source.ReadFiles in the teacher package.
func (s *Set) AddFile(filename string) (FileId, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return 0, err
	}

	return s.Add(filename, bytes), nil
}

// Get returns the file registered under the given id.  Panics if the id is
// out of range, since a valid FileId is only ever handed out by this Set.
func (s *Set) Get(id FileId) *File {
	return &s.files[id]
}

// ReadFiles reads a given set of source files into a fresh Set, returning
// the assigned ids in the same order as the filenames.  Mirrors
// source.ReadFiles in the teacher package.
func ReadFiles(filenames ...string) (*Set, []FileId, error) {
	set := NewSet()
	ids := make([]FileId, len(filenames))

	for i, name := range filenames {
		id, err := set.AddFile(name)
		if err != nil {
			return nil, nil, err
		}

		ids[i] = id
	}

	return set, ids, nil
}

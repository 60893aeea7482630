/*
Copyright 2024

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package stocks

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when no partition produced a single record.
var ErrEmptyDataset = errors.New("no price records found in any partition, please check the data paths")

// SourceParseError reports a data file that could not be read or parsed. The
// file is skipped; the rest of its partition is still loaded.
type SourceParseError struct {
	Partition string
	Path      string
	Err       error
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *SourceParseError) Unwrap() error {
	return e.Err
}

// EmptyPartitionWarning reports a partition without any parseable file.
type EmptyPartitionWarning struct {
	Partition string
	Location  string
}

func (e *EmptyPartitionWarning) Error() string {
	return fmt.Sprintf("no valid data files found in %s", e.Location)
}

// ReferenceJoinError reports a sector reference table that could not be
// loaded or parsed. Only the sector view is affected.
type ReferenceJoinError struct {
	Location string
	Err      error
}

func (e *ReferenceJoinError) Error() string {
	return fmt.Sprintf("error loading sector data from %s: %v", e.Location, e.Err)
}

func (e *ReferenceJoinError) Unwrap() error {
	return e.Err
}

var errUnsupportedFile = errors.New("unsupported file type")

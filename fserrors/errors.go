// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fserrors defines the error kinds surfaced by the filesystem store
// and the sendstream replay engine. They are enumerated kinds rather than
// exceptions: callers use errors.Is / errors.As against the sentinels and
// wrapper types defined here.
package fserrors

import "fmt"

// Sentinel errors for conditions that carry no extra data. Wrap with
// fmt.Errorf("%w: %s", fserrors.NotFound, path) for a path-specific message.
var (
	NotFound          = &kindError{"not found"}
	AlreadyExists     = &kindError{"already exists"}
	IsADirectory      = &kindError{"is a directory"}
	NotADirectory     = &kindError{"not a directory"}
	DirectoryNotEmpty = &kindError{"directory not empty"}
	WrongEntryType    = &kindError{"wrong entry type"}
)

type kindError struct{ msg string }

func (e *kindError) Error() string { return e.msg }

// MissingParentError reports that a Snapshot command referenced a subvolume
// uuid that has not been seen yet.
type MissingParentError struct {
	UUID string
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("missing parent subvolume: %s", e.UUID)
}

// InvariantViolatedError reports a condition the replay engine refuses to
// proceed past, e.g. an unsupported command or a malformed first command.
type InvariantViolatedError struct {
	Reason string
}

func (e *InvariantViolatedError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Reason)
}

// ApplyError wraps a store error with the command that triggered it.
type ApplyError struct {
	Command string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("applying %s: %v", e.Command, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

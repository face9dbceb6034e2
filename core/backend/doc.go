// Package backend describes the Conversion Backend collaborator.
//
// The backend owns DAT parsing and writing. This module only talks to it
// through the Backend interface: folder selection calls that confirm or
// reject a path, enumeration calls that list targets, fire-and-forget
// conversion requests, and two pushed event streams (processing and
// file-change). Completion of a request is never observed through its
// return value, only through the processing stream.
//
// core/backend/local provides an in-process implementation; mocks provides
// a testify mock for unit tests.
package backend

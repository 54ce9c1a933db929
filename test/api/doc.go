/*
Copyright 2026 the PetFriends API Test Authors.

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

// Package api provides end-to-end test utilities for the PetFriends API.
//
// # Client
//
// APIClient is a thin wrapper over net/http with one method per service
// operation. Every method returns a *Response holding the status code and
// the body, parsed when it is a JSON object and always available raw. A
// non-2xx status is never turned into an error: tests assert on the status
// themselves, including the expected 403 for rejected credentials. Only
// transport faults (timeouts, refused connections) and local I/O failures
// such as an unreadable photo fixture are returned as errors.
//
// Requests carry W3C trace context headers and are logged to GinkgoWriter
// with their trace ID so a failing spec can be matched to service logs.
//
// # Configuration
//
// LoadTestConfig reads the environment, after loading an optional .env
// file. When API_BASE_URL is not set the suites start the in-process fake
// from pkg/fake and point the client at it.
//
// # Shared state
//
// The remote service's pet list is shared by every user of the test
// account. Specs create what they need, clean up with DeferCleanup and
// never assume the list is otherwise stable.
package api

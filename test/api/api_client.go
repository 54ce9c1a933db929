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

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/onsi/ginkgo/v2"
)

const (
	authKeyHeader = "auth_key"

	contentTypeForm = "application/x-www-form-urlencoded"
)

// HTTPDoer is the part of *http.Client the API client depends on.
//
//go:generate mockgen -source=api_client.go -destination=mock/doer.go -package=mock
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    HTTPDoer
	config    *TestConfig
	endpoints *Endpoints
	out       io.Writer
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if baseURL == "" {
		baseURL = config.BaseURL
	}

	return newAPIClientWithConfig(config, baseURL), nil
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return newAPIClientWithConfig(config, config.BaseURL)
}

// NewAPIClientForURL uses config for everything but the base URL, which is
// how the suites target the in-process fake service.
func NewAPIClientForURL(config *TestConfig, baseURL string) *APIClient {
	return newAPIClientWithConfig(config, baseURL)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		out:       ginkgo.GinkgoWriter,
	}
}

// SetHTTPClient replaces the transport, used by tests to intercept requests.
func (c *APIClient) SetHTTPClient(client HTTPDoer) {
	c.client = client
}

// SetOutput redirects request logging, GinkgoWriter by default.
func (c *APIClient) SetOutput(w io.Writer) {
	c.out = w
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	fmt.Fprintf(c.out, "[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logErrorWithStatus logs an error with HTTP status code.
func (c *APIClient) logErrorWithStatus(method, path string, duration time.Duration, statusCode int, traceParent string, err error, context string) {
	fmt.Fprintf(c.out, "[%s %s] ERROR %s duration=%s status=%d traceparent=%s error=%v\n", method, path, context, duration, statusCode, traceParent, err)
	c.logTraceContext(traceParent)
}

// logErrorStatus logs a non-2xx response. These are returned to the caller, not raised.
func (c *APIClient) logErrorStatus(method, path string, statusCode int, body, traceParent string) {
	fmt.Fprintf(c.out, "[%s %s] NON-2XX STATUS status=%d body=%s traceparent=%s\n", method, path, statusCode, body, traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	fmt.Fprintf(c.out, "TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// requestOptions carries the per call parts of a request.
type requestOptions struct {
	headers     map[string]string
	body        io.Reader
	contentType string
}

// doRequest performs a single request with no retries. Only transport and
// read failures are errors, any status code is returned to the caller.
func (c *APIClient) doRequest(ctx context.Context, method, path string, options requestOptions) (*Response, error) {
	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, options.body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if options.contentType != "" {
		req.Header.Set("Content-Type", options.contentType)
	}

	for key, value := range options.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logErrorWithStatus(method, path, duration, resp.StatusCode, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		fmt.Fprintf(c.out, "[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		fmt.Fprintf(c.out, "[%s %s] response body: %s\n", method, path, truncate(string(respBody), 2048))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logErrorStatus(method, path, resp.StatusCode, truncate(string(respBody), 512), traceParent)
	}

	return newResponse(resp.StatusCode, respBody), nil
}

// truncate keeps logged bodies readable, photos come back as data URIs.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}

	return s[:limit] + "...(truncated)"
}

// formField is an ordered form value.
type formField struct {
	name  string
	value string
}

func petFields(name, animalType, age string) []formField {
	return []formField{
		{name: "name", value: name},
		{name: "animal_type", value: animalType},
		{name: "age", value: age},
	}
}

func encodeForm(fields []formField) io.Reader {
	values := url.Values{}
	for _, field := range fields {
		values.Set(field.name, field.value)
	}

	return strings.NewReader(values.Encode())
}

// encodeMultipart writes fields followed by a single file part read from photoPath.
func encodeMultipart(fields []formField, fileField, photoPath string) (io.Reader, string, error) {
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading photo %s: %w", photoPath, err)
	}

	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)

	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", field.name, err)
		}
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(photoPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, filepath.Base(photoPath)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating %s part: %w", fileField, err)
	}

	if _, err := part.Write(photo); err != nil {
		return nil, "", fmt.Errorf("writing %s part: %w", fileField, err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buffer, writer.FormDataContentType(), nil
}

// GetAPIKey requests an auth key for the given credentials. A 403 for
// rejected credentials is a normal response, not an error.
// The live service serves keys on GET, so that is what is sent.
func (c *APIClient) GetAPIKey(ctx context.Context, email, password string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.APIKey(), requestOptions{
		headers: map[string]string{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting api key: %w", err)
	}

	return resp, nil
}

// ListPets lists pets, filter is FilterAll or FilterMyPets. Other values
// are sent as is and the service decides what they mean.
func (c *APIClient) ListPets(ctx context.Context, authKey, filter string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.ListPets(filter), requestOptions{
		headers: map[string]string{authKeyHeader: authKey},
	})
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}

	return resp, nil
}

// AddNewPet creates a pet with a photo uploaded from photoPath.
func (c *APIClient) AddNewPet(ctx context.Context, authKey, name, animalType, age, photoPath string) (*Response, error) {
	body, contentType, err := encodeMultipart(petFields(name, animalType, age), "pet_photo", photoPath)
	if err != nil {
		return nil, fmt.Errorf("adding pet: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.endpoints.CreatePet(), requestOptions{
		headers:     map[string]string{authKeyHeader: authKey},
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("adding pet: %w", err)
	}

	return resp, nil
}

// AddNewPetWithoutPhoto creates a pet with no photo.
func (c *APIClient) AddNewPetWithoutPhoto(ctx context.Context, authKey, name, animalType, age string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.endpoints.CreatePetSimple(), requestOptions{
		headers:     map[string]string{authKeyHeader: authKey},
		body:        encodeForm(petFields(name, animalType, age)),
		contentType: contentTypeForm,
	})
	if err != nil {
		return nil, fmt.Errorf("adding pet without photo: %w", err)
	}

	return resp, nil
}

// SetPetPhoto replaces the photo of an existing pet.
func (c *APIClient) SetPetPhoto(ctx context.Context, authKey, petID, photoPath string) (*Response, error) {
	body, contentType, err := encodeMultipart(nil, "pet_photo", photoPath)
	if err != nil {
		return nil, fmt.Errorf("setting pet photo: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.endpoints.SetPetPhoto(petID), requestOptions{
		headers:     map[string]string{authKeyHeader: authKey},
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("setting pet photo: %w", err)
	}

	return resp, nil
}

// UpdatePetInfo replaces the name, animal type and age of a pet.
func (c *APIClient) UpdatePetInfo(ctx context.Context, authKey, petID, name, animalType, age string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, c.endpoints.UpdatePet(petID), requestOptions{
		headers:     map[string]string{authKeyHeader: authKey},
		body:        encodeForm(petFields(name, animalType, age)),
		contentType: contentTypeForm,
	})
	if err != nil {
		return nil, fmt.Errorf("updating pet: %w", err)
	}

	return resp, nil
}

// DeletePet removes a pet. Repeating the call reports whatever the service
// says about a missing pet.
func (c *APIClient) DeletePet(ctx context.Context, authKey, petID string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, c.endpoints.DeletePet(petID), requestOptions{
		headers: map[string]string{authKeyHeader: authKey},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting pet: %w", err)
	}

	return resp, nil
}

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

//nolint:err113 // dynamic errors acceptable in test code
package api

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Filter values understood by the pet listing endpoint.
const (
	FilterAll    = ""
	FilterMyPets = "my_pets"
)

// Pet is a pet record as returned by the service.
type Pet struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	AnimalType string `mapstructure:"animal_type"`
	Age        string `mapstructure:"age"`
	PetPhoto   string `mapstructure:"pet_photo"`
	CreatedAt  string `mapstructure:"created_at"`
	UserID     string `mapstructure:"user_id"`
}

// Response is the normalized result of every client call: the HTTP status
// and the body, parsed when it is a JSON object and always kept raw.
type Response struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        string
}

func newResponse(statusCode int, raw []byte) *Response {
	resp := &Response{
		StatusCode: statusCode,
		Raw:        string(raw),
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err == nil {
		resp.Body = body
	}

	return resp
}

// IsJSON reports whether the body parsed as a JSON object.
func (r *Response) IsJSON() bool {
	return r.Body != nil
}

// HasKey reports whether the parsed body has a top level field named key.
func (r *Response) HasKey(key string) bool {
	if r.Body == nil {
		return false
	}

	_, ok := r.Body[key]

	return ok
}

// String returns a top level field rendered as a string, or "" when absent.
func (r *Response) String(key string) string {
	if r.Body == nil {
		return ""
	}

	value, ok := r.Body[key]
	if !ok || value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}

// Pet decodes the body as a single pet record.
func (r *Response) Pet() (*Pet, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("response body is not a JSON object (status: %d): %s", r.StatusCode, r.Raw)
	}

	pet := &Pet{}
	if err := decodePet(r.Body, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

// Pets decodes the "pets" list of a listing response.
func (r *Response) Pets() ([]Pet, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("response body is not a JSON object (status: %d): %s", r.StatusCode, r.Raw)
	}

	raw, ok := r.Body["pets"]
	if !ok {
		return nil, fmt.Errorf("response has no pets field (status: %d)", r.StatusCode)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("pets field is %T, not a list", raw)
	}

	pets := make([]Pet, len(items))

	for i, item := range items {
		if err := decodePet(item, &pets[i]); err != nil {
			return nil, fmt.Errorf("decoding pet %d: %w", i, err)
		}
	}

	return pets, nil
}

// PetIDs returns the ids of the pets in a listing response.
func (r *Response) PetIDs() ([]string, error) {
	pets, err := r.Pets()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(pets))
	for i := range pets {
		ids[i] = pets[i].ID
	}

	return ids, nil
}

// decodePet is weakly typed as the service has been seen returning age
// and created_at as numbers as well as strings.
func decodePet(input interface{}, pet *Pet) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           pet,
	})
	if err != nil {
		return fmt.Errorf("creating pet decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decoding pet: %w", err)
	}

	return nil
}

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

package fake

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

const (
	authKeyHeader = "auth_key"

	// maxUploadSize bounds multipart bodies held in memory.
	maxUploadSize = 8 << 20
)

// Handler serves the PetFriends API from a Store.
type Handler struct {
	store  *Store
	logger logr.Logger
}

func NewHandler(store *Store, logger logr.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// NewRouter mounts the API routes. Key requests are accepted as GET, which
// the real service uses, and POST.
func NewRouter(store *Store, logger logr.Logger) http.Handler {
	h := NewHandler(store, logger)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.logRequests)

	router.Get("/api/key", h.GetAPIKey)
	router.Post("/api/key", h.GetAPIKey)
	router.Get("/api/pets", h.GetPets)
	router.Post("/api/pets", h.PostPets)
	router.Post("/api/create_pet_simple", h.PostCreatePetSimple)
	router.Put("/api/pets/{petID}", h.PutPet)
	router.Delete("/api/pets/{petID}", h.DeletePet)
	router.Post("/api/pets/set_photo/{petID}", h.PostSetPhoto)

	return router
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.V(1).Info("request served", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

// writeText mirrors the service, which answers errors with plain text rather than JSON.
func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	_, _ = io.WriteString(w, message)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		writeText(w, http.StatusForbidden, "This user wasn't found in database")
	case errors.Is(err, ErrNotFound):
		writeText(w, http.StatusNotFound, "Pet with this id wasn't found!")
	case errors.Is(err, ErrInvalidFilter):
		writeText(w, http.StatusInternalServerError, "Filter value is incorrect")
	default:
		h.logger.Error(err, "request failed", "method", r.Method, "path", r.URL.Path)
		writeText(w, http.StatusBadRequest, err.Error())
	}
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxUploadSize)
	}

	return r.ParseForm()
}

func formValue(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}

	return &values[0]
}

// readPhoto returns the uploaded pet_photo as a data URI.
func readPhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("pet_photo")
	if err != nil {
		return "", fmt.Errorf("reading pet_photo: %w", err)
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("reading pet_photo: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (h *Handler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.store.Authenticate(r.Header.Get("email"), r.Header.Get("password"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

func (h *Handler) GetPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.store.List(r.Header.Get(authKeyHeader), r.URL.Query().Get("filter"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]Pet{"pets": pets})
}

func (h *Handler) PostPets(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	photo, err := readPhoto(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createPet(w, r, photo)
}

func (h *Handler) PostCreatePetSimple(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.createPet(w, r, "")
}

func (h *Handler) createPet(w http.ResponseWriter, r *http.Request, photo string) {
	input := PetInput{
		Name:       r.PostForm.Get("name"),
		AnimalType: r.PostForm.Get("animal_type"),
		Age:        r.PostForm.Get("age"),
		PetPhoto:   photo,
	}

	pet, err := h.store.Create(r.Header.Get(authKeyHeader), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pet)
}

func (h *Handler) PutPet(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	update := PetUpdate{
		Name:       formValue(r, "name"),
		AnimalType: formValue(r, "animal_type"),
		Age:        formValue(r, "age"),
	}

	pet, err := h.store.Update(r.Header.Get(authKeyHeader), chi.URLParam(r, "petID"), update)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pet)
}

func (h *Handler) PostSetPhoto(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	photo, err := readPhoto(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	pet, err := h.store.SetPhoto(r.Header.Get(authKeyHeader), chi.URLParam(r, "petID"), photo)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pet)
}

// DeletePet answers with an empty body on success.
func (h *Handler) DeletePet(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Header.Get(authKeyHeader), chi.URLParam(r, "petID")); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

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

//nolint:revive,err113 // dot imports standard for Ginkgo, dynamic errors acceptable in test code
package api_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/petfriends-qa/petfriends-api-tests/test/api"
	"github.com/petfriends-qa/petfriends-api-tests/test/api/mock"
)

const baseURL = "https://petfriends.test"

var traceParentPattern = regexp.MustCompile(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`)

var _ = Describe("APIClient", func() {
	var (
		client    *api.APIClient
		transport *httpmock.MockTransport
		output    *bytes.Buffer
		ctx       context.Context
	)

	BeforeEach(func() {
		transport = httpmock.NewMockTransport()
		output = &bytes.Buffer{}
		ctx = context.Background()

		client = api.NewAPIClientForURL(&api.TestConfig{RequestTimeout: time.Second}, baseURL+"/")
		client.SetHTTPClient(&http.Client{Transport: transport})
		client.SetOutput(output)
	})

	It("should trim the trailing slash from the base url", func() {
		Expect(client.BaseURL()).To(Equal(baseURL))
	})

	Context("When requesting an api key", func() {
		It("should send credentials as headers and parse the key", func() {
			transport.RegisterResponder(http.MethodGet, baseURL+"/api/key", func(req *http.Request) (*http.Response, error) {
				Expect(req.Header.Get("email")).To(Equal("owner@example.com"))
				Expect(req.Header.Get("password")).To(Equal("secret"))
				Expect(req.Header.Get("Accept")).To(Equal("application/json"))
				Expect(req.Header.Get("Tracestate")).To(Equal("test-automation=ginkgo"))
				Expect(req.Header.Get("Traceparent")).To(MatchRegexp(traceParentPattern.String()))

				return httpmock.NewStringResponse(http.StatusOK, `{"key": "ea738148a1f19838e1c5d1413877f3691a3731380e733e877b0ae729"}`), nil
			})

			resp, err := client.GetAPIKey(ctx, "owner@example.com", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.IsJSON()).To(BeTrue())
			Expect(resp.String("key")).To(Equal("ea738148a1f19838e1c5d1413877f3691a3731380e733e877b0ae729"))
			Expect(transport.GetTotalCallCount()).To(Equal(1))
		})

		It("should return a rejection as a response, not an error", func() {
			transport.RegisterResponder(http.MethodGet, baseURL+"/api/key",
				httpmock.NewStringResponder(http.StatusForbidden, "This user wasn't found in database"))

			resp, err := client.GetAPIKey(ctx, "nobody@example.com", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(resp.IsJSON()).To(BeFalse())
			Expect(resp.HasKey("key")).To(BeFalse())
			Expect(resp.Raw).To(Equal("This user wasn't found in database"))

			Expect(output.String()).To(ContainSubstring("NON-2XX STATUS status=403"))
			Expect(output.String()).To(ContainSubstring("TRACE CONTEXT"))
		})
	})

	Context("When listing pets", func() {
		It("should send the auth key and filter", func() {
			transport.RegisterResponder(http.MethodGet, baseURL+"/api/pets", func(req *http.Request) (*http.Response, error) {
				Expect(req.Header.Get("auth_key")).To(Equal("key-1"))
				Expect(req.URL.Query().Get("filter")).To(Equal(api.FilterMyPets))

				return httpmock.NewStringResponse(http.StatusOK, `{"pets": [
					{"id": "p1", "name": "Murzik", "animal_type": "cat", "age": 5, "pet_photo": "", "created_at": 1694508311.5, "user_id": "u1"},
					{"id": "p2", "name": "Sharik", "animal_type": "dog", "age": "2", "pet_photo": "", "created_at": "1694508300", "user_id": "u1"}
				]}`), nil
			})

			resp, err := client.ListPets(ctx, "key-1", api.FilterMyPets)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			pets, err := resp.Pets()
			Expect(err).NotTo(HaveOccurred())
			Expect(pets).To(HaveLen(2))
			Expect(pets[0].Age).To(Equal("5"))
			Expect(pets[0].CreatedAt).To(Equal("1694508311.5"))
			Expect(pets[1].Age).To(Equal("2"))

			ids, err := resp.PetIDs()
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"p1", "p2"}))
		})

		It("should send an empty filter for all pets", func() {
			transport.RegisterResponder(http.MethodGet, baseURL+"/api/pets", func(req *http.Request) (*http.Response, error) {
				Expect(req.URL.RawQuery).To(Equal("filter="))

				return httpmock.NewStringResponse(http.StatusOK, `{"pets": []}`), nil
			})

			resp, err := client.ListPets(ctx, "key-1", api.FilterAll)
			Expect(err).NotTo(HaveOccurred())

			pets, err := resp.Pets()
			Expect(err).NotTo(HaveOccurred())
			Expect(pets).To(BeEmpty())
		})
	})

	Context("When adding a pet with a photo", func() {
		It("should upload the fields and photo as multipart form data", func() {
			transport.RegisterResponder(http.MethodPost, baseURL+"/api/pets", func(req *http.Request) (*http.Response, error) {
				Expect(req.Header.Get("auth_key")).To(Equal("key-1"))
				Expect(req.Header.Get("Content-Type")).To(HavePrefix("multipart/form-data; boundary="))
				Expect(req.ParseMultipartForm(1 << 20)).To(Succeed())

				Expect(req.PostFormValue("name")).To(Equal("Barboskin"))
				Expect(req.PostFormValue("animal_type")).To(Equal("mongrel"))
				Expect(req.PostFormValue("age")).To(Equal("4"))

				file, header, err := req.FormFile("pet_photo")
				Expect(err).NotTo(HaveOccurred())

				defer file.Close()

				Expect(header.Filename).To(Equal(api.DefaultPhoto))
				Expect(header.Header.Get("Content-Type")).To(Equal("image/jpeg"))

				data, err := io.ReadAll(file)
				Expect(err).NotTo(HaveOccurred())
				Expect(data[:2]).To(Equal([]byte{0xff, 0xd8}))

				return httpmock.NewStringResponse(http.StatusOK, `{"id": "p1", "name": "Barboskin", "animal_type": "mongrel", "age": "4", "pet_photo": "data:image/jpeg;base64,AA=="}`), nil
			})

			resp, err := client.AddNewPet(ctx, "key-1", "Barboskin", "mongrel", "4", api.PhotoPath(api.DefaultPhoto))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			pet, err := resp.Pet()
			Expect(err).NotTo(HaveOccurred())
			Expect(pet.ID).To(Equal("p1"))
			Expect(pet.Name).To(Equal("Barboskin"))
		})

		It("should fail before sending anything when the photo is missing", func() {
			_, err := client.AddNewPet(ctx, "key-1", "Barboskin", "mongrel", "4", api.PhotoPath("no-such-photo.jpg"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("adding pet"))
			Expect(transport.GetTotalCallCount()).To(BeZero())
		})
	})

	Context("When adding a pet without a photo", func() {
		It("should send the fields url encoded", func() {
			transport.RegisterResponder(http.MethodPost, baseURL+"/api/create_pet_simple", func(req *http.Request) (*http.Response, error) {
				Expect(req.Header.Get("Content-Type")).To(Equal("application/x-www-form-urlencoded"))
				Expect(req.ParseForm()).To(Succeed())
				Expect(req.PostForm.Get("name")).To(Equal("Ne znayu"))
				Expect(req.PostForm.Get("animal_type")).To(Equal("Kotya"))
				Expect(req.PostForm.Get("age")).To(Equal("4"))

				return httpmock.NewStringResponse(http.StatusOK, `{"id": "p1", "name": "Ne znayu", "pet_photo": ""}`), nil
			})

			resp, err := client.AddNewPetWithoutPhoto(ctx, "key-1", "Ne znayu", "Kotya", "4")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.String("name")).To(Equal("Ne znayu"))
			Expect(resp.String("pet_photo")).To(BeEmpty())
		})
	})

	Context("When changing a pet", func() {
		It("should update with a form encoded PUT", func() {
			transport.RegisterResponder(http.MethodPut, baseURL+"/api/pets/p1", func(req *http.Request) (*http.Response, error) {
				Expect(req.ParseForm()).To(Succeed())
				Expect(req.PostForm.Get("name")).To(Equal("Murzik"))

				return httpmock.NewStringResponse(http.StatusOK, `{"id": "p1", "name": "Murzik"}`), nil
			})

			resp, err := client.UpdatePetInfo(ctx, "key-1", "p1", "Murzik", "Kote", "5")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.String("name")).To(Equal("Murzik"))
		})

		It("should upload a replacement photo", func() {
			transport.RegisterResponder(http.MethodPost, baseURL+"/api/pets/set_photo/p1", func(req *http.Request) (*http.Response, error) {
				Expect(req.ParseMultipartForm(1 << 20)).To(Succeed())

				_, header, err := req.FormFile("pet_photo")
				Expect(err).NotTo(HaveOccurred())
				Expect(header.Header.Get("Content-Type")).To(Equal("image/png"))

				return httpmock.NewStringResponse(http.StatusOK, `{"id": "p1", "pet_photo": "data:image/png;base64,AA=="}`), nil
			})

			resp, err := client.SetPetPhoto(ctx, "key-1", "p1", api.PhotoPath(api.PNGPhoto))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.String("pet_photo")).NotTo(BeEmpty())
		})

		It("should delete and expose an empty body", func() {
			transport.RegisterResponder(http.MethodDelete, baseURL+"/api/pets/p1",
				httpmock.NewStringResponder(http.StatusOK, ""))

			resp, err := client.DeletePet(ctx, "key-1", "p1")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.IsJSON()).To(BeFalse())
			Expect(resp.Raw).To(BeEmpty())
		})
	})

	Context("When the transport fails", func() {
		It("should return a wrapped error", func() {
			ctrl := gomock.NewController(GinkgoT())
			doer := mock.NewMockHTTPDoer(ctrl)

			cause := errors.New("connection refused")
			doer.EXPECT().Do(gomock.Any()).Return(nil, cause)

			client.SetHTTPClient(doer)

			_, err := client.ListPets(ctx, "key-1", api.FilterAll)
			Expect(err).To(MatchError(cause))
			Expect(err.Error()).To(HavePrefix("listing pets: http request failed"))
			Expect(output.String()).To(ContainSubstring("ERROR http request failed"))
		})
	})
})

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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/petfriends-qa/petfriends-api-tests/test/api"
)

var _ = Describe("Pet Listing", func() {
	Context("When listing all pets", func() {
		Describe("Given at least one pet exists", func() {
			var pet *api.Pet

			BeforeEach(func() {
				pet = api.CreatePetWithCleanup(client, ctx, authKey, api.NewPetPayload().WithoutPhoto().Build())
			})

			It("should return a non-empty list", func() {
				resp, err := client.ListPets(ctx, authKey, api.FilterAll)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				pets, err := resp.Pets()
				Expect(err).NotTo(HaveOccurred())
				Expect(pets).NotTo(BeEmpty())
			})

			It("should include the pet in the account's own list", func() {
				api.VerifyPetPresence(api.ListOwnPets(client, ctx, authKey), pet.ID)
			})
		})
	})

	Context("When listing with an unsupported filter", func() {
		Describe("Given a filter value the service does not know", func() {
			It("should not succeed", func() {
				resp, err := client.ListPets(ctx, authKey, "everyone")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).NotTo(Equal(http.StatusOK), "body: %s", resp.Raw)
			})
		})
	})
})

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

var _ = Describe("Pet Deletion", func() {
	Context("When deleting one of the account's pets", func() {
		Describe("Given the pet exists", func() {
			var pet api.Pet

			BeforeEach(func() {
				pet = api.EnsureOwnPet(client, ctx, authKey)
			})

			It("should remove the pet from the account's list", func() {
				resp, err := client.DeletePet(ctx, authKey, pet.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK), "body: %s", resp.Raw)

				api.VerifyPetAbsence(api.ListOwnPets(client, ctx, authKey), pet.ID)
			})

			It("should report a second delete of the same pet", func() {
				resp, err := client.DeletePet(ctx, authKey, pet.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				resp, err = client.DeletePet(ctx, authKey, pet.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).NotTo(Equal(http.StatusOK), "body: %s", resp.Raw)
			})
		})
	})
})

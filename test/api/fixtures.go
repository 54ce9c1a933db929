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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Fixture photos shipped in the images directory.
const (
	DefaultPhoto   = "cat1.jpg"
	HedgehogPhoto  = "hedgehog.jpg"
	PNGPhoto       = "dog1.png"
	photoDirEnvVar = "PHOTO_DIR"
)

// PhotoPath resolves a fixture photo by file name. PHOTO_DIR overrides the
// images directory next to this package.
func PhotoPath(name string) string {
	if dir := os.Getenv(photoDirEnvVar); dir != "" {
		return filepath.Join(dir, name)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("images", name)
	}

	return filepath.Join(filepath.Dir(file), "images", name)
}

// GetAuthKey obtains an auth key for the configured test account, failing the spec otherwise.
func GetAuthKey(client *APIClient, ctx context.Context, config *TestConfig) string {
	resp, err := client.GetAPIKey(ctx, config.Email, config.Password)
	Expect(err).NotTo(HaveOccurred(), "Requesting an api key should not fail at transport level")
	Expect(resp.StatusCode).To(Equal(http.StatusOK), "Configured credentials should be accepted, body: %s", resp.Raw)
	Expect(resp.HasKey("key")).To(BeTrue(), "Key response should contain a key field")

	return resp.String("key")
}

// CreatePet creates a pet from payload and returns the created record. The
// simple endpoint is used when the payload has no photo.
func CreatePet(client *APIClient, ctx context.Context, authKey string, payload PetPayload) (*Response, error) {
	if payload.PhotoPath == "" {
		return client.AddNewPetWithoutPhoto(ctx, authKey, payload.Name, payload.AnimalType, payload.Age)
	}

	return client.AddNewPet(ctx, authKey, payload.Name, payload.AnimalType, payload.Age, payload.PhotoPath)
}

// CreatePetWithCleanup creates a pet and schedules its deletion.
func CreatePetWithCleanup(client *APIClient, ctx context.Context, authKey string, payload PetPayload) *Pet {
	resp, err := CreatePet(client, ctx, authKey, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.StatusCode).To(Equal(http.StatusOK), "Creating pet should succeed, body: %s", resp.Raw)

	pet, err := resp.Pet()
	Expect(err).NotTo(HaveOccurred())
	Expect(pet.ID).NotTo(BeEmpty(), "Created pet should have an id")

	GinkgoWriter.Printf("Created pet %q with ID: %s\n", pet.Name, pet.ID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		deleteResp, deleteErr := client.DeletePet(ctx, authKey, pet.ID)

		switch {
		case deleteErr != nil:
			GinkgoWriter.Printf("Warning: Failed to delete pet %s: %v\n", pet.ID, deleteErr)
		case deleteResp.StatusCode == http.StatusOK:
			GinkgoWriter.Printf("Successfully deleted pet: %s\n", pet.ID)
		case deleteResp.StatusCode == http.StatusNotFound:
			GinkgoWriter.Printf("Pet %s already deleted\n", pet.ID)
		default:
			GinkgoWriter.Printf("Warning: Failed to delete pet %s: status %d\n", pet.ID, deleteResp.StatusCode)
		}
	})

	return pet
}

// ListOwnPets lists the test account's own pets.
func ListOwnPets(client *APIClient, ctx context.Context, authKey string) []Pet {
	resp, err := client.ListPets(ctx, authKey, FilterMyPets)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.StatusCode).To(Equal(http.StatusOK), "Listing own pets should succeed, body: %s", resp.Raw)

	pets, err := resp.Pets()
	Expect(err).NotTo(HaveOccurred())

	return pets
}

// EnsureOwnPet returns the first of the account's own pets, creating one
// when the account has none.
func EnsureOwnPet(client *APIClient, ctx context.Context, authKey string) Pet {
	pets := ListOwnPets(client, ctx, authKey)
	if len(pets) > 0 {
		return pets[0]
	}

	GinkgoWriter.Printf("Account has no pets, creating one\n")

	CreatePetWithCleanup(client, ctx, authKey, NewPetPayload().WithName("Supercat").WithAnimalType("cat").WithAge("3").Build())

	pets = ListOwnPets(client, ctx, authKey)
	Expect(pets).NotTo(BeEmpty(), "Own pets should not be empty after creating one")

	return pets[0]
}

// FindPet returns the pet with the given id from a list, or nil.
func FindPet(pets []Pet, petID string) *Pet {
	for i := range pets {
		if pets[i].ID == petID {
			return &pets[i]
		}
	}

	return nil
}

// VerifyPetPresence verifies that pets are present in the list.
func VerifyPetPresence(pets []Pet, expectedPetIDs ...string) {
	petIDs := extractPetIDs(pets)
	for _, expectedID := range expectedPetIDs {
		Expect(petIDs).To(ContainElement(expectedID), "Expected pet ID %s to be present in the list", expectedID)
	}
}

// VerifyPetAbsence verifies that pets are not present in the list.
func VerifyPetAbsence(pets []Pet, unexpectedPetIDs ...string) {
	petIDs := extractPetIDs(pets)
	for _, unexpectedID := range unexpectedPetIDs {
		Expect(petIDs).NotTo(ContainElement(unexpectedID), "Expected pet ID %s to be absent from the list", unexpectedID)
	}
}

func extractPetIDs(pets []Pet) []string {
	petIDs := make([]string, len(pets))

	for i := range pets {
		petIDs[i] = pets[i].ID
	}

	return petIDs
}

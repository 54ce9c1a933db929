package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// PetPayload is the set of form values sent when creating or updating a pet.
type PetPayload struct {
	Name       string
	AnimalType string
	Age        string
	PhotoPath  string
}

// PetPayloadBuilder builds pet payloads for testing.
type PetPayloadBuilder struct {
	payload PetPayload
}

// NewPetPayload creates a pet payload with a unique name and the default fixture photo.
func NewPetPayload() *PetPayloadBuilder {
	return &PetPayloadBuilder{
		payload: PetPayload{
			Name:       generateRandomName("barboskin"),
			AnimalType: "mongrel",
			Age:        "4",
			PhotoPath:  PhotoPath(DefaultPhoto),
		},
	}
}

func (b *PetPayloadBuilder) WithName(name string) *PetPayloadBuilder {
	b.payload.Name = name
	return b
}

func (b *PetPayloadBuilder) WithAnimalType(animalType string) *PetPayloadBuilder {
	b.payload.AnimalType = animalType
	return b
}

func (b *PetPayloadBuilder) WithAge(age string) *PetPayloadBuilder {
	b.payload.Age = age
	return b
}

// WithPhoto sets the photo to a fixture file name under the images directory.
func (b *PetPayloadBuilder) WithPhoto(name string) *PetPayloadBuilder {
	b.payload.PhotoPath = PhotoPath(name)
	return b
}

// WithoutPhoto makes the payload suitable for the simple create endpoint.
func (b *PetPayloadBuilder) WithoutPhoto() *PetPayloadBuilder {
	b.payload.PhotoPath = ""
	return b
}

// Build returns the completed pet payload.
func (b *PetPayloadBuilder) Build() PetPayload {
	return b.payload
}

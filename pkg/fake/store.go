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
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrForbidden is returned for rejected credentials and unknown auth keys.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a pet does not exist or belongs to another account.
	ErrNotFound = errors.New("pet not found")

	// ErrInvalidFilter is returned for listing filters other than "" and "my_pets".
	ErrInvalidFilter = errors.New("filter value is incorrect")
)

const (
	FilterAll    = ""
	FilterMyPets = "my_pets"
)

// Credentials of the account seeded when nothing else is configured.
const (
	DefaultEmail    = "tester@petfriends.test"
	DefaultPassword = "correct-horse-battery"
)

// Account is a registered user of the service.
type Account struct {
	ID       string
	Email    string
	Password string
	Key      string
}

// Pet is a stored pet record, serialized the way the real service does.
type Pet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AnimalType string `json:"animal_type"`
	Age        string `json:"age"`
	PetPhoto   string `json:"pet_photo"`
	CreatedAt  string `json:"created_at"`
	UserID     string `json:"user_id"`
}

// PetInput carries the values of a create request. Nothing is validated.
type PetInput struct {
	Name       string
	AnimalType string
	Age        string
	PetPhoto   string
}

// PetUpdate carries the values of an update request, nil fields are left unchanged.
type PetUpdate struct {
	Name       *string
	AnimalType *string
	Age        *string
}

// Store is an in-memory, goroutine safe record of accounts and pets.
type Store struct {
	lock     sync.Mutex
	accounts []*Account
	// pets are kept in creation order, listings return newest first.
	pets []*Pet
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		now: time.Now,
	}
}

// AddAccount registers credentials and returns the account with its key.
func (s *Store) AddAccount(email, password string) *Account {
	s.lock.Lock()
	defer s.lock.Unlock()

	account := &Account{
		ID:       uuid.NewString(),
		Email:    email,
		Password: password,
		Key:      newKey(),
	}

	s.accounts = append(s.accounts, account)

	return account
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// Authenticate returns the auth key for the credentials.
func (s *Store) Authenticate(email, password string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, account := range s.accounts {
		if account.Email == email && account.Password == password {
			return account.Key, nil
		}
	}

	return "", ErrForbidden
}

// accountForKey must be called with the lock held.
func (s *Store) accountForKey(key string) (*Account, error) {
	if key == "" {
		return nil, ErrForbidden
	}

	for _, account := range s.accounts {
		if account.Key == key {
			return account, nil
		}
	}

	return nil, ErrForbidden
}

// ownPet must be called with the lock held.
func (s *Store) ownPet(account *Account, petID string) (*Pet, int, error) {
	for i, pet := range s.pets {
		if pet.ID == petID && pet.UserID == account.ID {
			return pet, i, nil
		}
	}

	return nil, -1, ErrNotFound
}

// List returns pets visible under filter, newest first.
func (s *Store) List(key, filter string) ([]Pet, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.accountForKey(key)
	if err != nil {
		return nil, err
	}

	if filter != FilterAll && filter != FilterMyPets {
		return nil, ErrInvalidFilter
	}

	result := make([]Pet, 0, len(s.pets))

	for i := len(s.pets) - 1; i >= 0; i-- {
		pet := s.pets[i]

		if filter == FilterMyPets && pet.UserID != account.ID {
			continue
		}

		result = append(result, *pet)
	}

	return result, nil
}

// Create stores a new pet owned by the key's account.
func (s *Store) Create(key string, input PetInput) (Pet, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.accountForKey(key)
	if err != nil {
		return Pet{}, err
	}

	pet := &Pet{
		ID:         uuid.NewString(),
		Name:       input.Name,
		AnimalType: input.AnimalType,
		Age:        input.Age,
		PetPhoto:   input.PetPhoto,
		CreatedAt:  strconv.FormatFloat(float64(s.now().UnixMicro())/1e6, 'f', -1, 64),
		UserID:     account.ID,
	}

	s.pets = append(s.pets, pet)

	return *pet, nil
}

// Update changes the fields set in update on one of the account's own pets.
func (s *Store) Update(key, petID string, update PetUpdate) (Pet, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.accountForKey(key)
	if err != nil {
		return Pet{}, err
	}

	pet, _, err := s.ownPet(account, petID)
	if err != nil {
		return Pet{}, err
	}

	if update.Name != nil {
		pet.Name = *update.Name
	}

	if update.AnimalType != nil {
		pet.AnimalType = *update.AnimalType
	}

	if update.Age != nil {
		pet.Age = *update.Age
	}

	return *pet, nil
}

// SetPhoto replaces the photo of one of the account's own pets.
func (s *Store) SetPhoto(key, petID, photo string) (Pet, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.accountForKey(key)
	if err != nil {
		return Pet{}, err
	}

	pet, _, err := s.ownPet(account, petID)
	if err != nil {
		return Pet{}, err
	}

	pet.PetPhoto = photo

	return *pet, nil
}

// Delete removes one of the account's own pets.
func (s *Store) Delete(key, petID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.accountForKey(key)
	if err != nil {
		return err
	}

	_, index, err := s.ownPet(account, petID)
	if err != nil {
		return err
	}

	s.pets = append(s.pets[:index], s.pets[index+1:]...)

	return nil
}

package scenario

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/common"
	"github.com/loykin/petfriends/internal/constants"
)

// Group names.
const (
	GroupAuth      = "auth"
	GroupList      = "list"
	GroupAdd       = "add"
	GroupAddSimple = "add_simple"
	GroupPhoto     = "photo"
	GroupDelete    = "delete"
	GroupUpdate    = "update"
)

// Values the suite sends.
const (
	invalidKey     = "invalid_key"
	someKey        = "some_key"
	invalidFilter  = "filter"
	incorrectPetID = "incorrect_id"
	validPetName   = "Давай"
	validPetType   = "Работай"
	validPetAge    = "3"
	simplePetName  = "Имя"
	simplePetType  = "Тип"
	simplePetAge   = "4"
	updatedPetName = "New name"
	updatedPetType = "type8"
	updatedPetAge  = "5"
)

var (
	expectOK         = Expect{Status: []int{http.StatusOK}}
	expectForbidden  = Expect{Status: []int{http.StatusForbidden}}
	expectBadRequest = Expect{Status: []int{http.StatusBadRequest}}
	expectNoUser     = Expect{Status: []int{http.StatusForbidden}, Contains: constants.MsgUserNotFound}
	expectNoKey      = Expect{Status: []int{http.StatusForbidden}, Contains: "Please provide 'auth_key'"}
)

// Cases returns the whole suite in execution order. Later groups rely on
// pets created by earlier ones, as the live service keeps state between calls.
func Cases() []Case {
	var all []Case
	all = append(all, authCases()...)
	all = append(all, listCases()...)
	all = append(all, addCases()...)
	all = append(all, addSimpleCases()...)
	all = append(all, photoCases()...)
	all = append(all, deleteCases()...)
	all = append(all, updateCases()...)
	return all
}

func authCases() []Case {
	keyCase := func(name, desc string, creds func(Env) petfriends.Credentials, e Expect) Case {
		return Case{Group: GroupAuth, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			res, err := env.Client.GetAPIKey(ctx, creds(env))
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		keyCase("valid_user", "a valid account gets a key",
			func(env Env) petfriends.Credentials { return env.Creds },
			Expect{Status: []int{http.StatusOK}, Paths: []string{"key"}}),
		keyCase("empty_email_and_password", "empty credentials are rejected",
			func(Env) petfriends.Credentials { return petfriends.Credentials{} },
			expectNoUser),
		keyCase("valid_email_empty_password", "an empty password is rejected",
			func(env Env) petfriends.Credentials { return petfriends.Credentials{Email: env.Creds.Email} },
			expectNoUser),
		keyCase("empty_email_valid_password", "an empty email is rejected",
			func(env Env) petfriends.Credentials { return petfriends.Credentials{Password: env.Creds.Password} },
			expectNoUser),
	}
}

func listCases() []Case {
	listCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, filter string, e Expect) Case {
		return Case{Group: GroupList, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			res, err := env.Client.ListPets(ctx, key(k), filter)
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		listCase("valid_key", "all pets are listed with a valid key", keep, petfriends.FilterAll,
			Expect{Status: []int{http.StatusOK}, NonEmpty: []string{"pets"}}),
		listCase("invalid_key", "an unknown key is rejected", replaceWith(someKey), petfriends.FilterAll,
			expectForbidden),
		listCase("invalid_filter", "an unknown filter is a server error", keep, invalidFilter,
			Expect{Status: []int{http.StatusInternalServerError}}),
	}
}

func addCases() []Case {
	valid := petfriends.PetInput{Name: validPetName, AnimalType: validPetType, Age: validPetAge}
	addCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, in petfriends.PetInput, photo func(Env) string, e Expect) Case {
		return Case{Group: GroupAdd, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			res, err := env.Client.AddPet(ctx, key(k), in, photo(env))
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		addCase("valid_data", "a pet with a JPEG photo is created", keep, valid, jpeg,
			Expect{Status: []int{http.StatusOK}, Equals: map[string]string{"name": valid.Name}}),
		addCase("invalid_key", "an unknown key is rejected", replaceWith(invalidKey), valid, jpeg,
			expectNoKey),
		addCase("empty_fields", "empty attributes are rejected", keep, petfriends.PetInput{}, jpeg,
			expectBadRequest),
		addCase("invalid_fields", "long name, symbols in type and a negative fractional age are rejected", keep,
			petfriends.PetInput{Name: strings.Repeat(validPetName, 1000), AnimalType: "??<>=!@#$%^&*()", Age: "-3.7"}, jpeg,
			expectBadRequest),
		addCase("letters_in_age", "a non-numeric age is rejected", keep,
			petfriends.PetInput{Name: validPetName, AnimalType: validPetType, Age: "age"}, jpeg,
			expectBadRequest),
		addCase("unsupported_image", "a GIF photo is rejected", keep, valid, gif,
			expectBadRequest),
	}
}

func addSimpleCases() []Case {
	valid := petfriends.PetInput{Name: simplePetName, AnimalType: simplePetType, Age: simplePetAge}
	simpleCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, in petfriends.PetInput, e Expect) Case {
		return Case{Group: GroupAddSimple, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			res, err := env.Client.AddPetSimple(ctx, key(k), in)
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		simpleCase("valid_data", "a pet without photo is created", keep, valid,
			Expect{Status: []int{http.StatusOK}, Equals: map[string]string{"name": valid.Name}}),
		simpleCase("invalid_key", "an unknown key is rejected", replaceWith(invalidKey), valid,
			expectForbidden),
		simpleCase("invalid_data", "empty name, long type with symbols and a bad age are rejected", keep,
			petfriends.PetInput{Name: "", AnimalType: strings.Repeat("type?<>!@#$", 1000), Age: "-4age"},
			expectBadRequest),
	}
}

func photoCases() []Case {
	photoCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, id func(petfriends.Pet) string, photo func(Env) string, e Expect) Case {
		return Case{Group: GroupPhoto, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			pet, err := ensureMyPet(ctx, env, k)
			if err != nil {
				return err
			}
			res, err := env.Client.SetPhoto(ctx, key(k), id(pet), photo(env))
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		photoCase("valid_data", "a JPEG photo is set on an own pet", keep, petID, jpeg,
			Expect{Status: []int{http.StatusOK}, NonEmpty: []string{"pet_photo"}}),
		photoCase("invalid_key", "an unknown key is rejected", replaceWith(invalidKey), petID, jpeg,
			expectForbidden),
		photoCase("empty_pet_id", "an empty pet id is rejected", keep, emptyID, jpeg,
			expectBadRequest),
		photoCase("unsupported_image", "a GIF photo is rejected", keep, petID, gif,
			expectBadRequest),
	}
}

func deleteCases() []Case {
	deleteCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, id func(petfriends.Pet) string, e Expect) Case {
		return Case{Group: GroupDelete, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			pet, err := firstMyPet(ctx, env, k)
			if err != nil {
				return err
			}
			res, err := env.Client.DeletePet(ctx, key(k), id(pet))
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		deleteCase("valid_data", "an own pet is deleted", keep, petID, expectOK),
		deleteCase("invalid_key", "an unknown key is rejected", replaceWith(invalidKey), petID, expectForbidden),
		deleteCase("incorrect_pet_id", "an unknown pet id is rejected", keep, fixedID(incorrectPetID), expectBadRequest),
	}
}

func updateCases() []Case {
	valid := petfriends.PetInput{Name: updatedPetName, AnimalType: updatedPetType, Age: updatedPetAge}
	updateCase := func(name, desc string, key func(petfriends.AuthKey) petfriends.AuthKey, in petfriends.PetInput, e Expect) Case {
		return Case{Group: GroupUpdate, Name: name, Description: desc, Run: func(ctx context.Context, env Env) error {
			k, err := validKey(ctx, env)
			if err != nil {
				return err
			}
			pet, err := firstMyPet(ctx, env, k)
			if err != nil {
				return err
			}
			res, err := env.Client.UpdatePet(ctx, key(k), pet.ID, in)
			if err != nil {
				return err
			}
			return verify(res, e)
		}}
	}
	return []Case{
		updateCase("valid_data", "an own pet is renamed", keep, valid,
			Expect{Status: []int{http.StatusOK}, Equals: map[string]string{"name": valid.Name}}),
		updateCase("invalid_key", "an unknown key is rejected", replaceWith(invalidKey), valid,
			expectForbidden),
		updateCase("invalid_data", "long name with symbols, empty type and a bad age are rejected", keep,
			petfriends.PetInput{Name: strings.Repeat("><!@#$$%^&", 1000), AnimalType: "", Age: "-5qwe"},
			expectBadRequest),
	}
}

func keep(k petfriends.AuthKey) petfriends.AuthKey { return k }

func replaceWith(key string) func(petfriends.AuthKey) petfriends.AuthKey {
	return func(petfriends.AuthKey) petfriends.AuthKey { return petfriends.AuthKey{Key: key} }
}

func petID(p petfriends.Pet) string { return p.ID }

func emptyID(petfriends.Pet) string { return "" }

func fixedID(id string) func(petfriends.Pet) string {
	return func(petfriends.Pet) string { return id }
}

func jpeg(env Env) string { return env.JPEG }

func gif(env Env) string { return env.GIF }

// validKey requests a key for the fixture account.
func validKey(ctx context.Context, env Env) (petfriends.AuthKey, error) {
	res, err := env.Client.GetAPIKey(ctx, env.Creds)
	if err != nil {
		return petfriends.AuthKey{}, err
	}
	if err := verify(res, Expect{Status: []int{http.StatusOK}, NonEmpty: []string{"key"}}); err != nil {
		return petfriends.AuthKey{}, fmt.Errorf("get api key: %w", err)
	}
	return *res.Value, nil
}

func myPets(ctx context.Context, env Env, key petfriends.AuthKey) ([]petfriends.Pet, error) {
	res, err := env.Client.ListPets(ctx, key, petfriends.FilterMyPets)
	if err != nil {
		return nil, err
	}
	if err := verify(res, Expect{Status: []int{http.StatusOK}, Paths: []string{"pets"}}); err != nil {
		return nil, fmt.Errorf("list own pets: %w", err)
	}
	if !res.IsJSON() {
		return nil, fmt.Errorf("list own pets: %w", res.DecodeErr)
	}
	return res.Value.Pets, nil
}

func firstMyPet(ctx context.Context, env Env, key petfriends.AuthKey) (petfriends.Pet, error) {
	pets, err := myPets(ctx, env, key)
	if err != nil {
		return petfriends.Pet{}, err
	}
	if len(pets) == 0 {
		return petfriends.Pet{}, ErrNoOwnPets
	}
	return pets[0], nil
}

// ensureMyPet is firstMyPet that creates a pet without photo when the user
// has none yet.
func ensureMyPet(ctx context.Context, env Env, key petfriends.AuthKey) (petfriends.Pet, error) {
	pets, err := myPets(ctx, env, key)
	if err != nil {
		return petfriends.Pet{}, err
	}
	if len(pets) > 0 {
		return pets[0], nil
	}
	res, err := env.Client.AddPetSimple(ctx, key, petfriends.PetInput{Name: simplePetName, AnimalType: simplePetType, Age: simplePetAge})
	if err != nil {
		return petfriends.Pet{}, err
	}
	if res.IsJSON() {
		common.GetLogger().WithComponent("scenario").WithPet(res.Value.ID).Debug("created pet for photo case")
	}
	return firstMyPet(ctx, env, key)
}

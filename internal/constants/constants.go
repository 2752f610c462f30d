package constants

import "time"

// Remote service defaults
const (
	DefaultBaseURL = "https://petfriends1.herokuapp.com/"

	// Timeout zero means no client-side deadline; a hung endpoint blocks the caller.
	DefaultTimeout = 0 * time.Second
)

// Endpoint paths, relative to the base URL. {petId} is filled per call.
const (
	PathAPIKey          = "api/key"
	PathPets            = "api/pets"
	PathCreatePetSimple = "api/create_pet_simple"
	PathSetPhoto        = "api/pets/set_photo/{petId}"
	PathPet             = "api/pets/{petId}"
	PathParamPetID      = "petId"
)

// Header and form field names understood by the service.
const (
	HeaderEmail    = "email"
	HeaderPassword = "password"
	HeaderAuthKey  = "auth_key"

	QueryFilter = "filter"

	FieldName       = "name"
	FieldAnimalType = "animal_type"
	FieldAge        = "age"
	FieldPetPhoto   = "pet_photo"
)

// Listing filters
const (
	FilterAll    = ""
	FilterMyPets = "my_pets"
)

// PhotoContentType is sent for every photo part whatever the file really is.
const PhotoContentType = "image/jpeg"

// Messages the service embeds in its error pages.
const (
	MsgUserNotFound   = "This user wasn't found in database"
	MsgProvideAuthKey = "Please provide 'auth_key' Header"
)

// Config and environment
const (
	EnvPrefix          = "PETFRIENDS"
	DefaultConfigPath  = "./config/petfriends.yaml"
	DefaultDotEnvPath  = ".env"
	DefaultJPEGFixture = "testdata/images/cat1.jpg"
	DefaultGIFFixture  = "testdata/images/GIF.gif"
)

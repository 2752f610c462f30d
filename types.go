package petfriends

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Credentials identify a user when requesting an auth key.
// Both values travel as request headers, not in a body.
type Credentials struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// AuthKey is the opaque token returned by GetAPIKey and sent as the auth_key
// header on every other call. It is never validated or refreshed locally.
type AuthKey struct {
	Key string `json:"key"`
}

// Pet is a pet record as the server reports it.
type Pet struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	AnimalType string     `json:"animal_type"`
	Age        FlexString `json:"age"`
	PetPhoto   string     `json:"pet_photo"`
	UserID     string     `json:"user_id,omitempty"`
	CreatedAt  FlexString `json:"created_at,omitempty"`
}

// PetList is the body of the listing endpoint.
type PetList struct {
	Pets []Pet `json:"pets"`
}

// PetInput carries the attributes sent when adding or updating a pet.
// Age is free text; the server decides whether it is a valid number.
type PetInput struct {
	Name       string
	AnimalType string
	Age        string
}

// Empty is the body type of calls that answer without content.
type Empty struct{}

// FlexString decodes JSON strings, numbers and null into a string.
type FlexString string

// UnmarshalJSON accepts a string, a number or null.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Int parses the value as an integer.
func (f FlexString) Int() (int, error) {
	return strconv.Atoi(string(f))
}

func (f FlexString) String() string { return string(f) }

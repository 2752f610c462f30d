package petfriends

import (
	"context"
	"net/http"

	"github.com/loykin/petfriends/internal/constants"
	"github.com/loykin/petfriends/internal/util"
)

// ListPets lists pets visible with key. filter is sent verbatim as the filter
// query parameter: FilterAll and FilterMyPets are the documented values, and
// the server decides what anything else means.
func (c *Client) ListPets(ctx context.Context, key AuthKey, filter string) (*Result[PetList], error) {
	req := c.newRequest(ctx, &key).SetQueryParam(constants.QueryFilter, filter)
	return execute[PetList](c, "list_pets", req, http.MethodGet, constants.PathPets)
}

// AddPet creates a pet with a photo in one multipart request.
// The photo file is opened for the duration of the call only.
func (c *Client) AddPet(ctx context.Context, key AuthKey, pet PetInput, photoPath string) (*Result[Pet], error) {
	f, err := openPhoto(photoPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	req := c.newRequest(ctx, &key).SetMultipartFormData(petFields(pet))
	attachPhoto(req, f)

	res, err := execute[Pet](c, "add_pet", req, http.MethodPost, constants.PathPets)
	if err != nil {
		return nil, err
	}
	c.logger.WithOperation("add_pet").Debug("pet added", "status_code", res.StatusCode, "body", util.Truncate(res.Text, 512))
	return res, nil
}

// AddPetSimple creates a pet without a photo.
func (c *Client) AddPetSimple(ctx context.Context, key AuthKey, pet PetInput) (*Result[Pet], error) {
	req := c.newRequest(ctx, &key).SetMultipartFormData(petFields(pet))
	return execute[Pet](c, "add_pet_simple", req, http.MethodPost, constants.PathCreatePetSimple)
}

// SetPhoto uploads a photo for an existing pet. An empty petID is not
// rejected locally; the request goes to api/pets/set_photo/.
func (c *Client) SetPhoto(ctx context.Context, key AuthKey, petID string, photoPath string) (*Result[Pet], error) {
	f, err := openPhoto(photoPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	req := c.newRequest(ctx, &key).SetPathParam(constants.PathParamPetID, petID)
	attachPhoto(req, f)
	return execute[Pet](c, "set_photo", req, http.MethodPost, constants.PathSetPhoto)
}

// DeletePet deletes a pet. The server answers with an empty body, so the
// Result normally has Value == nil and Text == "".
func (c *Client) DeletePet(ctx context.Context, key AuthKey, petID string) (*Result[Empty], error) {
	req := c.newRequest(ctx, &key).SetPathParam(constants.PathParamPetID, petID)
	return execute[Empty](c, "delete_pet", req, http.MethodDelete, constants.PathPet)
}

// UpdatePet replaces a pet's name, type and age.
func (c *Client) UpdatePet(ctx context.Context, key AuthKey, petID string, pet PetInput) (*Result[Pet], error) {
	req := c.newRequest(ctx, &key).
		SetPathParam(constants.PathParamPetID, petID).
		SetMultipartFormData(petFields(pet))
	return execute[Pet](c, "update_pet", req, http.MethodPut, constants.PathPet)
}

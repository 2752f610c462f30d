package petfriends

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/petfriends/internal/constants"
)

// ErrPhotoUnreadable wraps failures to open a photo before upload.
var ErrPhotoUnreadable = errors.New("petfriends: photo unreadable")

// openPhoto opens path for streaming upload. The caller must close the file
// once the request has completed.
func openPhoto(path string) (*os.File, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", ErrPhotoUnreadable, clean)
	}
	// #nosec G304 -- the photo path is chosen by the caller on purpose
	f, err := os.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoUnreadable, err)
	}
	return f, nil
}

// attachPhoto adds f as the pet_photo part. The part is always labelled
// image/jpeg, whatever the file holds; the server judges the content.
func attachPhoto(req *resty.Request, f *os.File) *resty.Request {
	return req.SetMultipartField(constants.FieldPetPhoto, filepath.Base(f.Name()), constants.PhotoContentType, f)
}

func petFields(p PetInput) map[string]string {
	return map[string]string{
		constants.FieldName:       p.Name,
		constants.FieldAnimalType: p.AnimalType,
		constants.FieldAge:        p.Age,
	}
}

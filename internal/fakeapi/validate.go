package fakeapi

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	maxNameLen  = 255
	maxPhotoLen = 5 << 20
)

var (
	animalTypeRe = regexp.MustCompile(`^[\p{L}\p{N} \-]+$`)
	ageRe        = regexp.MustCompile(`^\d{1,3}$`)

	acceptedPhotoTypes = map[string]struct{}{"image/jpeg": {}, "image/png": {}}
)

type petForm struct {
	Name       string
	AnimalType string
	Age        string
}

func (f petForm) validate() error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errors.New("name is too long")
	}
	at := strings.TrimSpace(f.AnimalType)
	if at == "" {
		return errors.New("animal_type is required")
	}
	if utf8.RuneCountInString(at) > maxNameLen || !animalTypeRe.MatchString(at) {
		return errors.New("animal_type is incorrect")
	}
	if !ageRe.MatchString(strings.TrimSpace(f.Age)) {
		return errors.New("age must be a non-negative integer")
	}
	return nil
}

// readPhoto loads an uploaded photo and returns it as a data URI. The
// declared part content type is ignored: only the bytes decide.
func readPhoto(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("pet_photo is required")
	}
	if fh.Size > maxPhotoLen {
		return "", errors.New("pet_photo is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoLen+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxPhotoLen {
		return "", errors.New("pet_photo is too large")
	}
	if len(data) == 0 {
		return "", errors.New("pet_photo is empty")
	}

	mime := mimetype.Detect(data).String()
	if _, ok := acceptedPhotoTypes[mime]; !ok {
		return "", errors.New("unsupported photo format " + mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

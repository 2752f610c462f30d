package fakeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loykin/petfriends/internal/constants"
	"github.com/loykin/petfriends/internal/fakeapi/store"
)

const ctxUserID = "petfriends.user_id"

type petJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AnimalType string  `json:"animal_type"`
	Age        string  `json:"age"`
	PetPhoto   string  `json:"pet_photo"`
	UserID     string  `json:"user_id"`
	CreatedAt  float64 `json:"created_at"`
}

func toJSON(p store.Pet) petJSON {
	return petJSON{
		ID:         p.ID,
		Name:       p.Name,
		AnimalType: p.AnimalType,
		Age:        p.Age,
		PetPhoto:   p.Photo,
		UserID:     p.UserID,
		CreatedAt:  float64(p.CreatedAt.UnixNano()) / 1e9,
	}
}

func (s *Server) getKey(c *gin.Context) {
	email := c.GetHeader(constants.HeaderEmail)
	password := c.GetHeader(constants.HeaderPassword)
	if email == "" || password == "" {
		userNotFound(c)
		return
	}
	u, ok, err := s.store.FindUser(c.Request.Context(), email, password)
	if err != nil {
		serverError(c, err)
		return
	}
	if !ok {
		userNotFound(c)
		return
	}
	key, err := s.issueKey(u.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

// requireKey rejects requests without a valid auth_key before any input is looked at.
func (s *Server) requireKey(c *gin.Context) {
	key := c.GetHeader(constants.HeaderAuthKey)
	if key == "" {
		provideAuthKey(c)
		return
	}
	userID, err := s.verifyKey(key)
	if err != nil {
		provideAuthKey(c)
		return
	}
	if _, ok, err := s.store.UserByID(c.Request.Context(), userID); err != nil || !ok {
		provideAuthKey(c)
		return
	}
	c.Set(ctxUserID, userID)
	c.Next()
}

func (s *Server) listPets(c *gin.Context) {
	owner := ""
	switch filter := c.Query(constants.QueryFilter); filter {
	case constants.FilterAll:
	case constants.FilterMyPets:
		owner = c.GetString(ctxUserID)
	default:
		serverError(c, errors.New("unknown filter "+filter))
		return
	}
	pets, err := s.store.ListPets(c.Request.Context(), owner)
	if err != nil {
		serverError(c, err)
		return
	}
	out := make([]petJSON, 0, len(pets))
	for _, p := range pets {
		out = append(out, toJSON(p))
	}
	c.JSON(http.StatusOK, gin.H{"pets": out})
}

func formOf(c *gin.Context) petForm {
	return petForm{
		Name:       c.PostForm(constants.FieldName),
		AnimalType: c.PostForm(constants.FieldAnimalType),
		Age:        c.PostForm(constants.FieldAge),
	}
}

func (s *Server) addPet(c *gin.Context) {
	form := formOf(c)
	if err := form.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	fh, _ := c.FormFile(constants.FieldPetPhoto)
	photo, err := readPhoto(fh)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	s.insert(c, form, photo)
}

func (s *Server) createPetSimple(c *gin.Context) {
	form := formOf(c)
	if err := form.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	s.insert(c, form, "")
}

func (s *Server) insert(c *gin.Context, form petForm, photo string) {
	p, err := s.store.InsertPet(c.Request.Context(), store.Pet{
		UserID:     c.GetString(ctxUserID),
		Name:       strings.TrimSpace(form.Name),
		AnimalType: strings.TrimSpace(form.AnimalType),
		Age:        strings.TrimSpace(form.Age),
		Photo:      photo,
	})
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSON(p))
}

// ownPet loads the pet named by the path and checks it belongs to the caller.
// It writes the error page itself and reports false when the handler must stop.
func (s *Server) ownPet(c *gin.Context, id string) (store.Pet, bool) {
	if id == "" {
		badRequest(c, "pet id is required")
		return store.Pet{}, false
	}
	p, ok, err := s.store.GetPet(c.Request.Context(), id)
	if err != nil {
		serverError(c, err)
		return store.Pet{}, false
	}
	if !ok {
		badRequest(c, "pet not found")
		return store.Pet{}, false
	}
	if p.UserID != c.GetString(ctxUserID) {
		page(c, http.StatusForbidden, "This pet belongs to another user")
		return store.Pet{}, false
	}
	return p, true
}

func (s *Server) setPhoto(c *gin.Context) {
	p, ok := s.ownPet(c, strings.Trim(c.Param("pet_id"), "/"))
	if !ok {
		return
	}
	fh, _ := c.FormFile(constants.FieldPetPhoto)
	photo, err := readPhoto(fh)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := s.store.SetPhoto(c.Request.Context(), p.ID, photo); err != nil {
		serverError(c, err)
		return
	}
	p.Photo = photo
	c.JSON(http.StatusOK, toJSON(p))
}

func (s *Server) deletePet(c *gin.Context) {
	p, ok := s.ownPet(c, c.Param("pet_id"))
	if !ok {
		return
	}
	if _, err := s.store.DeletePet(c.Request.Context(), p.ID); err != nil {
		serverError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) updatePet(c *gin.Context) {
	p, ok := s.ownPet(c, c.Param("pet_id"))
	if !ok {
		return
	}
	form := formOf(c)
	if err := form.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	p.Name = strings.TrimSpace(form.Name)
	p.AnimalType = strings.TrimSpace(form.AnimalType)
	p.Age = strings.TrimSpace(form.Age)
	if _, err := s.store.UpdatePet(c.Request.Context(), p.ID, p.Name, p.AnimalType, p.Age); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSON(p))
}

// Package fakeapi serves an in-process imitation of the PetFriends API. It
// reproduces the status codes and messages the real service answers with so
// that the client and the suite can run without network access.
package fakeapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/loykin/petfriends/internal/common"
	"github.com/loykin/petfriends/internal/fakeapi/store"
)

// User is an account seeded into the emulator.
type User struct {
	Email    string
	Password string
}

// Options configures the emulator.
type Options struct {
	// Secret signs auth keys; a random one is generated when empty.
	Secret []byte
	// KeyTTL limits key lifetime. Zero keys never expire, like the real service.
	KeyTTL time.Duration
	// Users are registered on start.
	Users []User
}

// Server is the emulator. It implements http.Handler.
type Server struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	engine *gin.Engine
	logger *common.Logger
}

// New builds an emulator backed by st and registers opts.Users.
func New(ctx context.Context, st *store.Store, opts Options) (*Server, error) {
	if st == nil {
		return nil, errors.New("fakeapi: store is required")
	}
	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("fakeapi: generate secret: %w", err)
		}
	}

	s := &Server{
		store:  st,
		secret: secret,
		ttl:    opts.KeyTTL,
		logger: common.GetLogger().WithComponent("fakeapi"),
	}
	for _, u := range opts.Users {
		if _, err := st.AddUser(ctx, u.Email, u.Password); err != nil {
			return nil, fmt.Errorf("fakeapi: seed user: %w", err)
		}
	}
	s.engine = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Engine exposes the gin engine, e.g. to mount extra routes in tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.accessLog())

	engine.GET("/api/key", s.getKey)

	api := engine.Group("/api", s.requireKey)
	api.GET("/pets", s.listPets)
	api.POST("/pets", s.addPet)
	api.POST("/create_pet_simple", s.createPetSimple)
	api.POST("/pets/set_photo/*pet_id", s.setPhoto)
	api.DELETE("/pets/:pet_id", s.deletePet)
	api.PUT("/pets/:pet_id", s.updatePet)

	return engine
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

type keyClaims struct {
	jwt.RegisteredClaims
}

func (s *Server) issueKey(userID string) (string, error) {
	now := time.Now()
	claims := keyClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// verifyKey returns the user id a key was issued to.
func (s *Server) verifyKey(key string) (string, error) {
	claims := &keyClaims{}
	tok, err := jwt.ParseWithClaims(key, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.Subject == "" {
		return "", errors.New("invalid key")
	}
	return claims.Subject, nil
}

package petfriends

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jpegFixture = "testdata/images/cat1.jpg"
	gifFixture  = "testdata/images/GIF.gif"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New(Config{}).BaseURL())
	assert.Equal(t, "http://localhost:1/", New(Config{BaseURL: "http://localhost:1"}).BaseURL())
}

func TestGetAPIKey_SendsCredentialsAsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/key" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("email") != "a@b.c" || r.Header.Get("password") != "pw" {
			t.Errorf("unexpected credential headers: %v", r.Header)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"k-123"}`))
	})

	res, err := c.GetAPIKey(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	require.True(t, res.IsJSON())
	assert.Equal(t, "k-123", res.Value.Key)
	assert.True(t, res.Has("key"))
	assert.True(t, res.OK())
}

func TestGetAPIKey_EmptyCredentialsAreSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasEmail := r.Header["Email"]
		_, hasPassword := r.Header["Password"]
		if !hasEmail || !hasPassword {
			t.Errorf("expected empty credential headers to be present: %v", r.Header)
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<h1>Forbidden</h1><p>This user wasn't found in database</p>"))
	})

	res, err := c.GetAPIKey(context.Background(), Credentials{})
	require.NoError(t, err, "a 403 is a result, not an error")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.False(t, res.IsJSON())
	assert.ErrorIs(t, res.DecodeErr, ErrNotJSON)
	assert.True(t, res.Contains("This user wasn't found in database"))
	assert.False(t, res.OK())
}

func TestListPets_ForwardsFilterVerbatim(t *testing.T) {
	for _, filter := range []string{FilterAll, FilterMyPets, "filter"} {
		t.Run("filter="+filter, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if _, ok := q["filter"]; !ok {
					t.Errorf("filter parameter missing: %s", r.URL.RawQuery)
				}
				if q.Get("filter") != filter {
					t.Errorf("expected filter %q, got %q", filter, q.Get("filter"))
				}
				if r.Header.Get("auth_key") != "k" {
					t.Errorf("expected auth_key header, got %v", r.Header)
				}
				_, _ = w.Write([]byte(`{"pets":[{"id":"1","name":"Барсик","animal_type":"кот","age":3,"pet_photo":""}]}`))
			})

			res, err := c.ListPets(context.Background(), AuthKey{Key: "k"}, filter)
			require.NoError(t, err)
			require.True(t, res.IsJSON())
			require.Len(t, res.Value.Pets, 1)
			assert.Equal(t, FlexString("3"), res.Value.Pets[0].Age, "numeric age decodes")
			assert.Equal(t, "Барсик", res.Get("pets.0.name").String())
		})
	}
}

func TestAddPet_MultipartWithJPEGLabel(t *testing.T) {
	gif, err := os.ReadFile(gifFixture)
	require.NoError(t, err)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pets" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart, got %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("name") != "Давай" || r.FormValue("animal_type") != "Работай" || r.FormValue("age") != "3" {
			t.Errorf("unexpected fields: %v", r.MultipartForm.Value)
		}
		fh := r.MultipartForm.File["pet_photo"]
		if len(fh) != 1 {
			t.Errorf("expected one pet_photo part, got %d", len(fh))
			return
		}
		if fh[0].Filename != "GIF.gif" {
			t.Errorf("expected base file name, got %q", fh[0].Filename)
		}
		if ct := fh[0].Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("photo must be labelled image/jpeg, got %q", ct)
		}
		f, _ := fh[0].Open()
		got, _ := io.ReadAll(f)
		_ = f.Close()
		if string(got) != string(gif) {
			t.Errorf("photo bytes differ")
		}
		_, _ = w.Write([]byte(`{"id":"p1","name":"Давай","animal_type":"Работай","age":"3","pet_photo":"data:..."}`))
	})

	res, err := c.AddPet(context.Background(), AuthKey{Key: "k"}, PetInput{Name: "Давай", AnimalType: "Работай", Age: "3"}, gifFixture)
	require.NoError(t, err)
	require.True(t, res.IsJSON())
	assert.Equal(t, "Давай", res.Value.Name)
	assert.Equal(t, "p1", res.Value.ID)
}

func TestAddPet_UnreadablePhotoSendsNothing(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := c.AddPet(context.Background(), AuthKey{Key: "k"}, PetInput{Name: "a"}, filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPhotoUnreadable))

	_, err = c.SetPhoto(context.Background(), AuthKey{Key: "k"}, "p1", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPhotoUnreadable))

	assert.Equal(t, int32(0), hits.Load())
}

func TestAddPetSimple_NoPhotoPart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/create_pet_simple" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
			return
		}
		if len(r.MultipartForm.File) != 0 {
			t.Errorf("unexpected file parts: %v", r.MultipartForm.File)
		}
		if r.FormValue("age") != "4" {
			t.Errorf("unexpected age %q", r.FormValue("age"))
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("<h1>Bad Request</h1>"))
	})

	res, err := c.AddPetSimple(context.Background(), AuthKey{Key: "k"}, PetInput{Name: "Имя", AnimalType: "Тип", Age: "4"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Nil(t, res.Value)
	assert.Equal(t, "<h1>Bad Request</h1>", res.Text)
}

func TestSetPhoto_PathAndEmptyID(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"x","pet_photo":"data:image/jpeg;base64,AA=="}`))
	})

	res, err := c.SetPhoto(context.Background(), AuthKey{Key: "k"}, "abc 1", jpegFixture)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Value.PetPhoto)

	_, err = c.SetPhoto(context.Background(), AuthKey{Key: "k"}, "", jpegFixture)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/pets/set_photo/abc 1", "/api/pets/set_photo/"}, paths)
}

func TestSetPhoto_GIFLabelledAsJPEG(t *testing.T) {
	gif, err := os.ReadFile(gifFixture)
	require.NoError(t, err)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if len(r.MultipartForm.Value) != 0 {
			t.Errorf("set_photo must not send attribute fields: %v", r.MultipartForm.Value)
		}
		fh := r.MultipartForm.File["pet_photo"]
		if len(fh) != 1 {
			t.Errorf("expected one pet_photo part, got %d", len(fh))
			return
		}
		if fh[0].Filename != "GIF.gif" {
			t.Errorf("expected base file name, got %q", fh[0].Filename)
		}
		if ct := fh[0].Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("photo must be labelled image/jpeg, got %q", ct)
		}
		f, _ := fh[0].Open()
		got, _ := io.ReadAll(f)
		_ = f.Close()
		if string(got) != string(gif) {
			t.Errorf("photo bytes differ")
		}
		w.WriteHeader(http.StatusBadRequest)
	})

	res, err := c.SetPhoto(context.Background(), AuthKey{Key: "k"}, "p1", gifFixture)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeletePet_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/pets/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	res, err := c.DeletePet(context.Background(), AuthKey{Key: "k"}, "p1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "", res.Text)
	assert.False(t, res.IsJSON())
	assert.ErrorIs(t, res.DecodeErr, ErrNotJSON)
}

func TestUpdatePet_PutMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/pets/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
			return
		}
		_, _ = w.Write([]byte(`{"id":"p1","name":"` + r.FormValue("name") + `","animal_type":"type8","age":"5"}`))
	})

	res, err := c.UpdatePet(context.Background(), AuthKey{Key: "k"}, "p1", PetInput{Name: "New name", AnimalType: "type8", Age: "5"})
	require.NoError(t, err)
	require.True(t, res.IsJSON())
	assert.Equal(t, "New name", res.Value.Name)
}

func TestTransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url})
	res, err := c.GetAPIKey(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "get_api_key")
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListPets(ctx, AuthKey{Key: "k"}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestNoRetries(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, err := c.ListPets(context.Background(), AuthKey{Key: "k"}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

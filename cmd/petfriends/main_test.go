package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/loykin/petfriends/internal/config"
	"github.com/loykin/petfriends/internal/fakeapi"
	"github.com/loykin/petfriends/internal/fakeapi/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	testEmail    = "cli@example.com"
	testPassword = "cli-pass"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func startEmulator(t *testing.T) string {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	srv, err := fakeapi.New(context.Background(), st, fakeapi.Options{
		Users: []fakeapi.User{{Email: testEmail, Password: testPassword}},
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", "", "--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func creds(base string) []string {
	return []string{"--base-url", base, "--email", testEmail, "--password", testPassword, "--log-level", "error"}
}

func TestKeyCommand_JSON(t *testing.T) {
	base := startEmulator(t)
	out, err := runCLI(t, append([]string{"key", "-o", "json"}, creds(base)...)...)
	require.NoError(t, err)

	var r struct {
		Status int            `json:"status"`
		Body   map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	assert.Equal(t, http.StatusOK, r.Status)
	assert.NotEmpty(t, r.Body["key"])
}

func TestKeyCommand_WrongPasswordIsNotAnError(t *testing.T) {
	base := startEmulator(t)
	out, err := runCLI(t, "key", "--base-url", base, "--email", testEmail, "--password", "nope", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "status: 403")
	assert.Contains(t, out, "This user wasn't found in database")
}

func TestPetLifecycleCommands(t *testing.T) {
	base := startEmulator(t)
	photo := filepath.Join("..", "..", "testdata", "images", "cat1.jpg")

	out, err := runCLI(t, append([]string{"add", "Барсик", "кот", "3", "--photo", photo, "-o", "yaml"}, creds(base)...)...)
	require.NoError(t, err)
	var added struct {
		Status int            `yaml:"status"`
		Body   map[string]any `yaml:"body"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &added), out)
	require.Equal(t, http.StatusOK, added.Status, out)
	id, _ := added.Body["id"].(string)
	require.NotEmpty(t, id)
	assert.True(t, strings.HasPrefix(added.Body["pet_photo"].(string), "data:image/jpeg;base64,"))

	out, err = runCLI(t, append([]string{"pets", "--filter", "my_pets"}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = runCLI(t, append([]string{"update", id, "Мурзик", "кот", "4"}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "status: 200")
	assert.Contains(t, out, "Мурзик")

	out, err = runCLI(t, append([]string{"set-photo", id, photo}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "status: 200")

	out, err = runCLI(t, append([]string{"delete", id}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "status: 200")

	out, err = runCLI(t, append([]string{"delete", id}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "status: 400")
}

func TestAddWithoutPhotoUsesSimpleEndpoint(t *testing.T) {
	base := startEmulator(t)
	out, err := runCLI(t, append([]string{"add", "Имя", "Тип", "4"}, creds(base)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "status: 200")
	assert.Contains(t, out, `"pet_photo":""`)
}

func TestExplicitKeySkipsLogin(t *testing.T) {
	base := startEmulator(t)
	out, err := runCLI(t, "pets", "--base-url", base, "--key", "invalid_key", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "status: 403")
}

func TestMissingCredentials(t *testing.T) {
	base := startEmulator(t)
	t.Setenv("PETFRIENDS_EMAIL", "")
	t.Setenv("PETFRIENDS_PASSWORD", "")
	_, err := runCLI(t, "pets", "--base-url", base, "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingCredentials))
}

func TestUnreadablePhotoFails(t *testing.T) {
	base := startEmulator(t)
	_, err := runCLI(t, append([]string{"add", "a", "b", "1", "--photo", filepath.Join(t.TempDir(), "none.jpg")}, creds(base)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photo unreadable")
}

func TestInvalidOutputFormat(t *testing.T) {
	base := startEmulator(t)
	_, err := runCLI(t, append([]string{"key", "-o", "xml"}, creds(base)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCheckCommand_List(t *testing.T) {
	out, err := runCLI(t, "check", "--list", "--run", "auth")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "auth/"))
	assert.NotContains(t, out, "list/")
}

func TestCheckCommand_RunsAgainstEmulator(t *testing.T) {
	base := startEmulator(t)
	t.Setenv("PETFRIENDS_IMAGES_JPEG", filepath.Join("..", "..", "testdata", "images", "cat1.jpg"))
	t.Setenv("PETFRIENDS_IMAGES_GIF", filepath.Join("..", "..", "testdata", "images", "GIF.gif"))

	out, err := runCLI(t, append([]string{"check", "--run", "auth", "--run", "add", "--run", "photo"}, creds(base)...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS auth/valid_user")
	assert.Contains(t, out, "PASS photo/valid_data")
	assert.Contains(t, out, "14 passed, 0 failed")
}

func TestCheckCommand_FailureIsAnError(t *testing.T) {
	base := startEmulator(t)
	t.Setenv("PETFRIENDS_IMAGES_JPEG", filepath.Join("..", "..", "testdata", "images", "cat1.jpg"))
	t.Setenv("PETFRIENDS_IMAGES_GIF", filepath.Join("..", "..", "testdata", "images", "GIF.gif"))

	out, err := runCLI(t, append([]string{"check", "--run", "delete/valid_data"}, creds(base)...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errChecksFailed))
	assert.Contains(t, out, "FAIL delete/valid_data")
	assert.Contains(t, out, "there are no own pets")
}

type recordingExit struct {
	code int
	err  error
}

func (r *recordingExit) Exit(code int) { r.code = code }

func (r *recordingExit) LogFatalError(err error, msg string, keyvals ...any) {
	r.err = err
	r.Exit(1)
}

func TestExitHandlerReplaceable(t *testing.T) {
	prev := exitHandler
	rec := &recordingExit{}
	exitHandler = rec
	t.Cleanup(func() { exitHandler = prev })

	boom := errors.New("boom")
	exitHandler.LogFatalError(boom, "failed")
	assert.Equal(t, 1, rec.code)
	assert.Equal(t, boom, rec.err)
}

package main

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/share"
)

func startTestCore(t *testing.T) {
	t.Helper()
	t.Setenv("NOTEBOOKS_STORAGE", "memory")
	t.Setenv("NOTEBOOKS_LOG_LEVEL", "ERROR")
	require.NoError(t, startCore(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, stopCore()) })
}

func decodeError(t *testing.T, out string) errorBody {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	require.NotEmpty(t, env.Error.Code, "expected error envelope, got %s", out)
	return env.Error
}

func TestCall_notInitialized(t *testing.T) {
	body := decodeError(t, notebooksList())
	assert.Equal(t, "UNAVAILABLE", string(body.Code))
	assert.Contains(t, getLastError(), "core not initialized")
}

func TestBridge_notebookFlow(t *testing.T) {
	startTestCore(t)

	var notebooks []models.Notebook
	require.NoError(t, json.Unmarshal([]byte(notebooksList()), &notebooks))
	require.Len(t, notebooks, 2)

	var nb models.Notebook
	out := notebookCreate(`{"name":"Recipes","color":"#2A9D8F"}`)
	require.NoError(t, json.Unmarshal([]byte(out), &nb), out)
	assert.Equal(t, "Recipes", nb.Name)
	assert.Equal(t, "#FFFFFF", nb.BackgroundColor)

	out = notebookUpdate(nb.ID, `{"name":"Dinners"}`)
	require.NoError(t, json.Unmarshal([]byte(out), &nb), out)
	assert.Equal(t, "Dinners", nb.Name)
	assert.Equal(t, "#2A9D8F", nb.Color)

	var note models.Note
	out = noteAdd(nb.ID, "Lasagna")
	require.NoError(t, json.Unmarshal([]byte(out), &note), out)
	assert.Equal(t, "Lasagna", note.Text)

	out = noteUpdate(nb.ID, note.ID, `{"text":"Lasagna, extra cheese"}`)
	require.NoError(t, json.Unmarshal([]byte(out), &note), out)
	assert.Equal(t, "Lasagna, extra cheese", note.Text)

	assert.JSONEq(t, `{"ok":true}`, noteDelete(nb.ID, note.ID))
	assert.JSONEq(t, `{"ok":true}`, notebookDelete(nb.ID))

	body := decodeError(t, notebookGet(nb.ID))
	assert.Equal(t, "NOTEBOOK_NOT_FOUND", string(body.Code))
}

func TestBridge_errors(t *testing.T) {
	startTestCore(t)

	body := decodeError(t, notebookCreate(`{"name":"  ","color":"#000000"}`))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))

	body = decodeError(t, notebookUpdate("missing", `not json`))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))

	body = decodeError(t, noteAdd("missing", "text"))
	assert.Equal(t, "NOTEBOOK_NOT_FOUND", string(body.Code))
	assert.NotEmpty(t, getLastError())
}

func TestBridge_settings(t *testing.T) {
	startTestCore(t)

	var toggled struct {
		DarkMode bool `json:"darkMode"`
		Theme    struct {
			Background string `json:"background"`
		} `json:"theme"`
	}
	require.NoError(t, json.Unmarshal([]byte(darkModeToggle()), &toggled))
	assert.True(t, toggled.DarkMode)
	assert.NotEmpty(t, toggled.Theme.Background)

	var hb models.HomeBackground
	require.NoError(t, json.Unmarshal([]byte(homeBackgroundOpacitySet(1.7)), &hb))
	assert.Equal(t, 1.0, hb.Opacity)

	require.NoError(t, json.Unmarshal([]byte(homeBackgroundColorSet("#112233", 0.25)), &hb))
	assert.Equal(t, "#112233", hb.Color)
	assert.Equal(t, 0.25, hb.ColorOpacity)

	var settings settingsResponse
	require.NoError(t, json.Unmarshal([]byte(settingsGet()), &settings))
	assert.True(t, settings.DarkMode)
	assert.Greater(t, settings.Revision, uint64(1))
}

func TestBridge_onboarding(t *testing.T) {
	startTestCore(t)

	assert.JSONEq(t, `{"hasAcceptedPrivacyPolicy":false,"hasCompletedOnboarding":false}`, onboardingGet())
	assert.JSONEq(t, `{"hasAcceptedPrivacyPolicy":true,"hasCompletedOnboarding":false}`, onboardingAcceptPrivacy())
	assert.JSONEq(t, `{"hasAcceptedPrivacyPolicy":true,"hasCompletedOnboarding":true}`, onboardingComplete())
}

func TestBridge_colorHelpers(t *testing.T) {
	assert.JSONEq(t, `{"hex":"#008080"}`, colorHSLToHex(180, 100, 25, 100))
	assert.JSONEq(t, `{"position":0}`, colorHuePosition("#FF0000"))

	body := decodeError(t, colorHuePosition("teal"))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))
}

func TestBridge_shareRequest(t *testing.T) {
	assert.JSONEq(t,
		`{"text":"milk","title":"Share Note","fileName":"milk.txt","mimeType":"text/plain","uti":"public.plain-text"}`,
		shareRequest("milk"))
}

type fakeShare struct {
	err error
	got *share.Request
}

func (f *fakeShare) Available(context.Context) bool { return true }

func (f *fakeShare) Share(_ context.Context, req share.Request) error {
	f.got = &req
	return f.err
}

type fakeClipboard struct{ copied string }

func (f *fakeClipboard) Copy(_ context.Context, text string) error {
	f.copied = text
	return nil
}

type fakePermissions struct{ status media.PermissionStatus }

func (f fakePermissions) Status(context.Context) (media.PermissionStatus, error) {
	return f.status, nil
}

func (f fakePermissions) Request(context.Context) (media.PermissionStatus, error) {
	return f.status, nil
}

type fakePicker struct{ uri string }

func (f fakePicker) Pick(context.Context, media.PickOptions) (string, bool, error) {
	return f.uri, f.uri == "", nil
}

func useHost(t *testing.T, h hostServices) {
	t.Helper()
	registerHost(h)
	t.Cleanup(func() { registerHost(hostServices{}) })
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 8, 6))))
	return path
}

func addTestNote(t *testing.T, text string) (string, string) {
	t.Helper()
	var nb models.Notebook
	require.NoError(t, json.Unmarshal([]byte(notebookCreate(`{"name":"Errands","color":"#E76F51"}`)), &nb))
	var note models.Note
	require.NoError(t, json.Unmarshal([]byte(noteAdd(nb.ID, text)), &note))
	return nb.ID, note.ID
}

// TestBridge_noteShare verifies the share fallbacks reach the registered host services.
func TestBridge_noteShare(t *testing.T) {
	startTestCore(t)
	nbID, noteID := addTestNote(t, "buy stamps")

	assert.JSONEq(t, `{"result":"show_text","text":"buy stamps","fileName":"buy stamps.txt"}`, noteShare(nbID, noteID))

	clipboard := &fakeClipboard{}
	useHost(t, hostServices{clipboard: clipboard})
	assert.JSONEq(t, `{"result":"copied"}`, noteShare(nbID, noteID))
	assert.Equal(t, "buy stamps", clipboard.copied)

	sheet := &fakeShare{}
	useHost(t, hostServices{native: sheet, clipboard: clipboard})
	assert.JSONEq(t, `{"result":"shared"}`, noteShare(nbID, noteID))
	require.NotNil(t, sheet.got)
	assert.Equal(t, "buy stamps.txt", sheet.got.FileName)

	sheet.err = share.ErrDismissed
	assert.JSONEq(t, `{"result":"cancelled"}`, noteShare(nbID, noteID))

	body := decodeError(t, noteShare(nbID, "missing"))
	assert.Equal(t, "NOTE_NOT_FOUND", string(body.Code))
}

// TestBridge_backgroundPick verifies picked images become the home and notebook backgrounds.
func TestBridge_backgroundPick(t *testing.T) {
	startTestCore(t)
	nbID, _ := addTestNote(t, "x")

	body := decodeError(t, homeBackgroundPick())
	assert.Equal(t, "UNAVAILABLE", string(body.Code))

	useHost(t, hostServices{perms: fakePermissions{status: media.PermissionDenied}, picker: fakePicker{uri: writeTestPNG(t)}})
	body = decodeError(t, homeBackgroundPick())
	assert.Equal(t, "PERMISSION_DENIED", string(body.Code))

	useHost(t, hostServices{perms: fakePermissions{status: media.PermissionGranted}, picker: fakePicker{}})
	body = decodeError(t, notebookBackgroundPick(nbID))
	assert.Equal(t, "CANCELLED", string(body.Code))

	useHost(t, hostServices{perms: fakePermissions{status: media.PermissionGranted}, picker: fakePicker{uri: writeTestPNG(t)}})
	var home struct {
		Image          media.Image           `json:"image"`
		HomeBackground models.HomeBackground `json:"homeBackground"`
	}
	out := homeBackgroundPick()
	require.NoError(t, json.Unmarshal([]byte(out), &home), out)
	assert.Equal(t, home.Image.URI, home.HomeBackground.Image)
	assert.Equal(t, 8, home.Image.Width)

	var picked struct {
		Image    media.Image     `json:"image"`
		Notebook models.Notebook `json:"notebook"`
	}
	out = notebookBackgroundPick(nbID)
	require.NoError(t, json.Unmarshal([]byte(out), &picked), out)
	assert.Equal(t, picked.Image.URI, picked.Notebook.BackgroundImage)
	assert.Equal(t, models.DefaultOverlayColor, picked.Notebook.BackgroundImageColor)

	body = decodeError(t, notebookBackgroundPick("missing"))
	assert.Equal(t, "NOTEBOOK_NOT_FOUND", string(body.Code))
}

// TestBridge_notebookBackgroundImageSet verifies a cleared image resets its opacity.
func TestBridge_notebookBackgroundImageSet(t *testing.T) {
	startTestCore(t)
	nbID, _ := addTestNote(t, "x")

	var nb models.Notebook
	out := notebookBackgroundImageSet(nbID, `{"uri":"file:///bg.jpg","opacity":0.8,"overlayOpacity":0.2}`)
	require.NoError(t, json.Unmarshal([]byte(out), &nb), out)
	assert.Equal(t, "file:///bg.jpg", nb.BackgroundImage)
	assert.Equal(t, 0.8, *nb.BackgroundImageOpacity)
	assert.Equal(t, models.DefaultOverlayColor, nb.BackgroundImageColor)
	assert.Equal(t, 0.2, *nb.BackgroundImageColorOpacity)

	var cleared models.Notebook
	out = notebookBackgroundImageSet(nbID, `{"uri":""}`)
	require.NoError(t, json.Unmarshal([]byte(out), &cleared), out)
	assert.Empty(t, cleared.BackgroundImage)
	assert.Equal(t, models.ClearedNotebookImageOpacity, *cleared.BackgroundImageOpacity)
	assert.Equal(t, 0.2, *cleared.BackgroundImageColorOpacity, "overlay kept")

	body := decodeError(t, notebookBackgroundImageSet(nbID, `{`))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))
}

// TestBridge_homeBackgroundUpdate verifies an invalid field rejects the whole update.
func TestBridge_homeBackgroundUpdate(t *testing.T) {
	startTestCore(t)

	var hb models.HomeBackground
	out := homeBackgroundUpdate(`{"image":"file:///home.jpg","opacity":0.7}`)
	require.NoError(t, json.Unmarshal([]byte(out), &hb), out)
	assert.Equal(t, "file:///home.jpg", hb.Image)
	assert.Equal(t, 0.7, hb.Opacity)

	body := decodeError(t, homeBackgroundUpdate(`{"image":"","color":"navy"}`))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))

	var settings settingsResponse
	require.NoError(t, json.Unmarshal([]byte(settingsGet()), &settings))
	assert.Equal(t, "file:///home.jpg", settings.HomeBackground.Image)
}

// TestBridge_colorPicker verifies picker state round-trips through slider drags.
func TestBridge_colorPicker(t *testing.T) {
	assert.JSONEq(t, `{"hue":120,"saturation":100,"lightness":50,"alpha":100,"hex":"#00ff00"}`, colorPickerFromHex("#00FF00"))

	state := colorPickerFromHex("#00FF00")
	assert.JSONEq(t, `{"hue":180,"saturation":100,"lightness":50,"alpha":100,"hex":"#00ffff"}`, colorPickerDrag(state, "hue", 50, 100))
	assert.JSONEq(t, `{"hue":0,"saturation":100,"lightness":0,"alpha":100,"hex":"#000000"}`, colorPickerDrag("", "lightness", -20, 100))

	body := decodeError(t, colorPickerDrag(state, "brightness", 1, 2))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))
	body = decodeError(t, colorPickerFromHex("green"))
	assert.Equal(t, "INVALID_INPUT", string(body.Code))
}

// TestCall_cleanupWaitsForCallsInFlight verifies the core is not closed under a running call.
func TestCall_cleanupWaitsForCallsInFlight(t *testing.T) {
	t.Setenv("NOTEBOOKS_STORAGE", "memory")
	t.Setenv("NOTEBOOKS_LOG_LEVEL", "ERROR")
	require.NoError(t, startCore(t.TempDir()))

	entered := make(chan struct{})
	release := make(chan struct{})
	result := make(chan string)
	go func() {
		result <- call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
			close(entered)
			<-release
			return len(c.Notebooks.Notebooks()), nil
		})
	}()
	<-entered

	stopped := make(chan error)
	go func() { stopped <- stopCore() }()

	select {
	case <-stopped:
		t.Fatal("Cleanup returned while a call was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	assert.Equal(t, "2", <-result)
	require.NoError(t, <-stopped)
}

package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/color"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/share"
)

var (
	coreMu sync.RWMutex
	core   *bootstrap.Container

	hostMu sync.RWMutex
	host   hostServices

	lastErr string
	lastMu  sync.RWMutex
)

// hostServices are the platform features the app registers: the share sheet,
// the clipboard and the photo library. Any of them may be nil.
// Callbacks run while a bridge call holds the core and must not call back into the bridge.
type hostServices struct {
	native    share.Native
	clipboard share.Clipboard
	perms     media.Permissions
	picker    media.Picker
}

func registerHost(h hostServices) {
	hostMu.Lock()
	defer hostMu.Unlock()
	host = h
}

func currentHost() hostServices {
	hostMu.RLock()
	defer hostMu.RUnlock()
	return host
}

type errorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// startCore opens the core at dataDir. A second call while the core is open is a no-op.
func startCore(dataDir string) error {
	coreMu.Lock()
	defer coreMu.Unlock()
	if core != nil {
		return nil
	}

	cfg := config.FromEnv()
	if dataDir != "" {
		cfg.App.DataDir = dataDir
	}
	logging.Init(cfg.LoggingOptions())

	c, err := bootstrap.NewContainer(context.Background(), cfg, logging.Get())
	if err != nil {
		return err
	}
	core = c
	return nil
}

func stopCore() error {
	coreMu.Lock()
	defer coreMu.Unlock()
	if core == nil {
		return nil
	}
	err := core.Close()
	core = nil
	return err
}

// call runs fn against the open core and encodes its result, or the error envelope.
// The core stays open until fn returns; Cleanup waits for calls in flight.
func call(fn func(ctx context.Context, c *bootstrap.Container) (interface{}, error)) string {
	coreMu.RLock()
	defer coreMu.RUnlock()
	if core == nil {
		return fail(apperrors.New(apperrors.ErrUnavailable, "core not initialized"))
	}

	result, err := fn(context.Background(), core)
	if err != nil {
		return fail(err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fail(apperrors.Wrap(apperrors.ErrInternal, "failed to serialize result", err))
	}
	return string(data)
}

// pure encodes the result of a function that needs no open core.
func pure(result interface{}, err error) string {
	if err != nil {
		return fail(err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fail(apperrors.Wrap(apperrors.ErrInternal, "failed to serialize result", err))
	}
	return string(data)
}

func fail(err error) string {
	body := errorBody{Code: apperrors.CodeOf(err), Message: apperrors.MessageOf(err)}
	setLastError(err.Error())
	data, _ := json.Marshal(errorEnvelope{Error: body})
	return string(data)
}

func setLastError(msg string) {
	lastMu.Lock()
	defer lastMu.Unlock()
	lastErr = msg
}

func getLastError() string {
	lastMu.RLock()
	defer lastMu.RUnlock()
	return lastErr
}

func decode(payload string, v interface{}) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalid, "invalid JSON payload", err)
	}
	return nil
}

// Notebook operations

type notebookCreateRequest struct {
	Name            string `json:"name"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

func notebooksList() string {
	return call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Notebooks.Notebooks(), nil
	})
}

func notebookGet(id string) string {
	return call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Notebooks.Notebook(id)
	})
}

func notebookCreate(payload string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		var req notebookCreateRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return c.Notebooks.CreateNotebook(ctx, req.Name, req.Color, req.BackgroundColor, req.TextColor)
	})
}

func notebookUpdate(id, payload string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		var u models.NotebookUpdate
		if err := decode(payload, &u); err != nil {
			return nil, err
		}
		return c.Notebooks.UpdateNotebook(ctx, id, u)
	})
}

func notebookDelete(id string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Notebooks.DeleteNotebook(ctx, id); err != nil {
			return nil, err
		}
		return okResponse{OK: true}, nil
	})
}

// notebookBackgroundImageSet takes {"uri","opacity","overlayColor","overlayOpacity"}.
// An empty uri removes the image; omitted fields keep the editor values.
func notebookBackgroundImageSet(id, payload string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		var ch models.BackgroundImageChange
		if err := decode(payload, &ch); err != nil {
			return nil, err
		}
		return setNotebookBackground(ctx, c, id, ch)
	})
}

// notebookBackgroundPick opens the host photo library and uses the chosen
// image as the notebook background.
func notebookBackgroundPick(id string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if _, err := c.Notebooks.Notebook(id); err != nil {
			return nil, err
		}
		img, err := backgroundPicker(c).Pick(ctx)
		if err != nil {
			return nil, err
		}
		nb, err := setNotebookBackground(ctx, c, id, models.BackgroundImageChange{URI: img.URI})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"image": img, "notebook": nb}, nil
	})
}

func setNotebookBackground(ctx context.Context, c *bootstrap.Container, id string, ch models.BackgroundImageChange) (models.Notebook, error) {
	nb, err := c.Notebooks.Notebook(id)
	if err != nil {
		return models.Notebook{}, err
	}
	opacity, overlayColor, overlayOpacity := ch.Resolve(nb)
	return c.Notebooks.SetNotebookBackgroundImage(ctx, id, ch.URI, opacity, overlayColor, overlayOpacity)
}

func backgroundPicker(c *bootstrap.Container) *media.BackgroundPicker {
	h := currentHost()
	return media.NewBackgroundPicker(media.NewImageSelector(h.perms, h.picker, c.Log), c.Images)
}

// Note operations

func noteAdd(notebookID, text string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Notebooks.AddNote(ctx, notebookID, text)
	})
}

func noteUpdate(notebookID, noteID, payload string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		var u models.NoteUpdate
		if err := decode(payload, &u); err != nil {
			return nil, err
		}
		return c.Notebooks.UpdateNote(ctx, notebookID, noteID, u)
	})
}

func noteDelete(notebookID, noteID string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Notebooks.DeleteNote(ctx, notebookID, noteID); err != nil {
			return nil, err
		}
		return okResponse{OK: true}, nil
	})
}

// Settings

type settingsResponse struct {
	models.Settings
	Revision uint64 `json:"revision"`
}

func settingsGet() string {
	return call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
		return settingsResponse{Settings: c.Notebooks.Settings(), Revision: c.Notebooks.Revision()}, nil
	})
}

func darkModeToggle() string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		dark, err := c.Notebooks.ToggleDarkMode(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"darkMode": dark, "theme": color.ThemeFor(dark)}, nil
	})
}

func homeBackgroundSet(uri string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Notebooks.SetHomeBackground(ctx, uri); err != nil {
			return nil, err
		}
		return c.Notebooks.HomeBackground(), nil
	})
}

func homeBackgroundOpacitySet(opacity float64) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Notebooks.SetHomeBackgroundOpacity(ctx, opacity); err != nil {
			return nil, err
		}
		return c.Notebooks.HomeBackground(), nil
	})
}

func homeBackgroundColorSet(hex string, opacity float64) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Notebooks.UpdateHomeBackground(ctx, models.HomeBackgroundUpdate{
			Color:        &hex,
			ColorOpacity: &opacity,
		})
	})
}

// homeBackgroundUpdate applies {"image","opacity","color","colorOpacity"}; omitted fields are kept.
func homeBackgroundUpdate(payload string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		var u models.HomeBackgroundUpdate
		if err := decode(payload, &u); err != nil {
			return nil, err
		}
		return c.Notebooks.UpdateHomeBackground(ctx, u)
	})
}

// homeBackgroundPick opens the host photo library and uses the chosen image
// as the home background.
func homeBackgroundPick() string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		img, err := backgroundPicker(c).Pick(ctx)
		if err != nil {
			return nil, err
		}
		home, err := c.Notebooks.UpdateHomeBackground(ctx, models.HomeBackgroundUpdate{Image: &img.URI})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"image": img, "homeBackground": home}, nil
	})
}

// Onboarding

func onboardingGet() string {
	return call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Onboarding.State(), nil
	})
}

func onboardingAcceptPrivacy() string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Onboarding.AcceptPrivacyPolicy(ctx); err != nil {
			return nil, err
		}
		return c.Onboarding.State(), nil
	})
}

func onboardingComplete() string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Onboarding.CompleteOnboarding(ctx); err != nil {
			return nil, err
		}
		return c.Onboarding.State(), nil
	})
}

// Media

func imageImport(src string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		return c.Images.Import(ctx, src)
	})
}

func imageRemove(uri string) string {
	return call(func(_ context.Context, c *bootstrap.Container) (interface{}, error) {
		if err := c.Images.Remove(uri); err != nil {
			return nil, err
		}
		return okResponse{OK: true}, nil
	})
}

// Share

type shareResponse struct {
	Result share.Result `json:"result"`
	// Text is set when the app has to show the note itself.
	Text     string `json:"text,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// noteShare sends a note through the registered share sheet, falling back to the clipboard.
func noteShare(notebookID, noteID string) string {
	return call(func(ctx context.Context, c *bootstrap.Container) (interface{}, error) {
		note, err := c.Notebooks.Note(notebookID, noteID)
		if err != nil {
			return nil, err
		}
		h := currentHost()
		result, err := share.NewService(h.native, h.clipboard, c.Log).Share(ctx, note.Text)
		if err != nil {
			return nil, err
		}
		resp := shareResponse{Result: result}
		if result == share.ResultShowText {
			resp.Text = note.Text
			resp.FileName = share.FileName(note.Text)
		}
		return resp, nil
	})
}

// Color and share helpers need no open core.

func colorHSLToHex(h, s, l, alpha float64) string {
	return pure(map[string]string{"hex": color.HSLAToHex(h, s, l, alpha)}, nil)
}

func colorHuePosition(hex string) string {
	if !color.IsHex(hex) {
		return fail(apperrors.Newf(apperrors.ErrInvalid, "%q is not a hex color", hex))
	}
	return pure(map[string]float64{"position": color.HuePosition(hex)}, nil)
}

type pickerState struct {
	color.Picker
	Hex string `json:"hex"`
}

func newPickerState(p *color.Picker) pickerState {
	return pickerState{Picker: *p, Hex: p.Hex()}
}

// colorPickerFromHex opens the custom color picker on an existing color.
func colorPickerFromHex(hex string) string {
	if !color.IsHex(hex) {
		return fail(apperrors.Newf(apperrors.ErrInvalid, "%q is not a hex color", hex))
	}
	return pure(newPickerState(color.PickerFromHex(hex)), nil)
}

// colorPickerDrag moves one slider of the picker state in payload and returns the new state.
// An empty payload starts from the reset position.
func colorPickerDrag(payload, slider string, x, width float64) string {
	p := color.NewPicker()
	if payload != "" {
		var st pickerState
		if err := decode(payload, &st); err != nil {
			return fail(err)
		}
		p.SetHue(st.Hue)
		p.SetSaturation(st.Saturation)
		p.SetLightness(st.Lightness)
		p.SetAlpha(st.Alpha)
	}
	if !p.Drag(slider, x, width) {
		return fail(apperrors.Newf(apperrors.ErrInvalid, "unknown slider %q", slider))
	}
	return pure(newPickerState(p), nil)
}

func shareRequest(text string) string {
	return pure(share.NewRequest(text), nil)
}

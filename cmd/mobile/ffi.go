// Package main provides the FFI bridge for mobile platforms.
// Build as shared library: libnotebooks.so (Android) / notebooks.framework (iOS)
//
//	go build -buildmode=c-shared -o libnotebooks.so ./cmd/mobile
//
// Every function returning *C.char hands ownership to the caller, who must
// release it with FreeString. Failures are returned as
// {"error":{"code":"...","message":"..."}} and recorded for GetLastError.
package main

/*
#include <stdlib.h>
#include <string.h>

// Platform callbacks registered with RegisterHost.
// share:      0 shared, 1 dismissed, anything else failed.
// copy:       0 copied, anything else failed.
// permission: request is 0 to check and 1 to ask; returns 0 granted,
//             1 denied, 2 undetermined, negative on failure.
// pick:       writes a NUL-terminated URI into buf; returns 0 picked,
//             1 cancelled, anything else failed.
typedef int (*nb_share_fn)(const char* request_json);
typedef int (*nb_copy_fn)(const char* text);
typedef int (*nb_permission_fn)(int request);
typedef int (*nb_pick_fn)(const char* options_json, char* buf, int buf_len);

static inline int nb_call_share(nb_share_fn f, const char* request_json) { return f(request_json); }
static inline int nb_call_copy(nb_copy_fn f, const char* text) { return f(text); }
static inline int nb_call_permission(nb_permission_fn f, int request) { return f(request); }
static inline int nb_call_pick(nb_pick_fn f, const char* options_json, char* buf, int buf_len) {
	return f(options_json, buf, buf_len);
}
*/
import "C"
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unsafe"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/share"
)

//export Init
// Init opens the core in dataDir (empty for the configured default).
// Returns 0 on success, non-zero on error.
func Init(dataDir *C.char) int32 {
	if err := startCore(C.GoString(dataDir)); err != nil {
		setLastError(err.Error())
		return 1
	}
	return 0
}

//export Cleanup
// Cleanup releases storage and stops the event bus.
func Cleanup() {
	if err := stopCore(); err != nil {
		setLastError(err.Error())
	}
}

//export GetLastError
// GetLastError returns the last error message.
func GetLastError() *C.char {
	return C.CString(getLastError())
}

// =====================================================
// Notebook Operations
// =====================================================

//export NotebooksList
func NotebooksList() *C.char {
	return C.CString(notebooksList())
}

//export NotebookGet
func NotebookGet(id *C.char) *C.char {
	return C.CString(notebookGet(C.GoString(id)))
}

//export NotebookCreate
// NotebookCreate takes {"name","color","backgroundColor","textColor"}.
func NotebookCreate(payload *C.char) *C.char {
	return C.CString(notebookCreate(C.GoString(payload)))
}

//export NotebookUpdate
// NotebookUpdate applies a partial update; omitted fields are left unchanged.
func NotebookUpdate(id, payload *C.char) *C.char {
	return C.CString(notebookUpdate(C.GoString(id), C.GoString(payload)))
}

//export NotebookDelete
func NotebookDelete(id *C.char) *C.char {
	return C.CString(notebookDelete(C.GoString(id)))
}

//export NotebookBackgroundImageSet
// NotebookBackgroundImageSet takes {"uri","opacity","overlayColor","overlayOpacity"}.
// An empty uri removes the image and resets its opacity.
func NotebookBackgroundImageSet(id, payload *C.char) *C.char {
	return C.CString(notebookBackgroundImageSet(C.GoString(id), C.GoString(payload)))
}

//export NotebookBackgroundPick
// NotebookBackgroundPick runs the registered photo picker and sets the notebook background.
func NotebookBackgroundPick(id *C.char) *C.char {
	return C.CString(notebookBackgroundPick(C.GoString(id)))
}

// =====================================================
// Note Operations
// =====================================================

//export NoteAdd
func NoteAdd(notebookID, text *C.char) *C.char {
	return C.CString(noteAdd(C.GoString(notebookID), C.GoString(text)))
}

//export NoteUpdate
func NoteUpdate(notebookID, noteID, payload *C.char) *C.char {
	return C.CString(noteUpdate(C.GoString(notebookID), C.GoString(noteID), C.GoString(payload)))
}

//export NoteDelete
func NoteDelete(notebookID, noteID *C.char) *C.char {
	return C.CString(noteDelete(C.GoString(notebookID), C.GoString(noteID)))
}

//export NoteShare
// NoteShare shares a note through the registered share sheet or clipboard.
// A "show_text" result carries the text for the app to display.
func NoteShare(notebookID, noteID *C.char) *C.char {
	return C.CString(noteShare(C.GoString(notebookID), C.GoString(noteID)))
}

// =====================================================
// Settings
// =====================================================

//export SettingsGet
func SettingsGet() *C.char {
	return C.CString(settingsGet())
}

//export DarkModeToggle
func DarkModeToggle() *C.char {
	return C.CString(darkModeToggle())
}

//export HomeBackgroundSet
// HomeBackgroundSet stores the home image URI; an empty URI clears it.
func HomeBackgroundSet(uri *C.char) *C.char {
	return C.CString(homeBackgroundSet(C.GoString(uri)))
}

//export HomeBackgroundOpacitySet
func HomeBackgroundOpacitySet(opacity C.double) *C.char {
	return C.CString(homeBackgroundOpacitySet(float64(opacity)))
}

//export HomeBackgroundColorSet
func HomeBackgroundColorSet(hex *C.char, opacity C.double) *C.char {
	return C.CString(homeBackgroundColorSet(C.GoString(hex), float64(opacity)))
}

//export HomeBackgroundUpdate
// HomeBackgroundUpdate applies {"image","opacity","color","colorOpacity"} as one change.
func HomeBackgroundUpdate(payload *C.char) *C.char {
	return C.CString(homeBackgroundUpdate(C.GoString(payload)))
}

//export HomeBackgroundPick
// HomeBackgroundPick runs the registered photo picker and sets the home background.
func HomeBackgroundPick() *C.char {
	return C.CString(homeBackgroundPick())
}

// =====================================================
// Onboarding
// =====================================================

//export OnboardingGet
func OnboardingGet() *C.char {
	return C.CString(onboardingGet())
}

//export OnboardingAcceptPrivacy
func OnboardingAcceptPrivacy() *C.char {
	return C.CString(onboardingAcceptPrivacy())
}

//export OnboardingComplete
func OnboardingComplete() *C.char {
	return C.CString(onboardingComplete())
}

// =====================================================
// Media
// =====================================================

//export ImageImport
// ImageImport copies a picked image into the data directory and returns its URIs.
func ImageImport(src *C.char) *C.char {
	return C.CString(imageImport(C.GoString(src)))
}

//export ImageRemove
func ImageRemove(uri *C.char) *C.char {
	return C.CString(imageRemove(C.GoString(uri)))
}

// =====================================================
// Color and Share Helpers
// =====================================================

//export ColorHSLToHex
func ColorHSLToHex(h, s, l, alpha C.double) *C.char {
	return C.CString(colorHSLToHex(float64(h), float64(s), float64(l), float64(alpha)))
}

//export ColorHuePosition
func ColorHuePosition(hex *C.char) *C.char {
	return C.CString(colorHuePosition(C.GoString(hex)))
}

//export ColorPickerFromHex
// ColorPickerFromHex returns the picker state {hue,saturation,lightness,alpha,hex} for a color.
func ColorPickerFromHex(hex *C.char) *C.char {
	return C.CString(colorPickerFromHex(C.GoString(hex)))
}

//export ColorPickerDrag
// ColorPickerDrag moves one slider ("hue", "saturation", "lightness", "alpha")
// of state to offset x on a track of the given width.
func ColorPickerDrag(state, slider *C.char, x, width C.double) *C.char {
	return C.CString(colorPickerDrag(C.GoString(state), C.GoString(slider), float64(x), float64(width)))
}

//export ShareRequest
// ShareRequest returns the share sheet payload (title, file name, MIME type) for text.
func ShareRequest(text *C.char) *C.char {
	return C.CString(shareRequest(C.GoString(text)))
}

// =====================================================
// Host Callbacks
// =====================================================

const pickBufferSize = 4096

//export RegisterHost
// RegisterHost installs the platform callbacks. Pass NULL for any feature the
// platform lacks; calling it again replaces all of them.
func RegisterHost(shareFn C.nb_share_fn, copyFn C.nb_copy_fn, permissionFn C.nb_permission_fn, pickFn C.nb_pick_fn) {
	var h hostServices
	if shareFn != nil {
		h.native = hostShare{fn: shareFn}
	}
	if copyFn != nil {
		h.clipboard = hostClipboard{fn: copyFn}
	}
	if permissionFn != nil {
		h.perms = hostPermissions{fn: permissionFn}
	}
	if pickFn != nil {
		h.picker = hostPicker{fn: pickFn}
	}
	registerHost(h)
}

type hostShare struct{ fn C.nb_share_fn }

func (h hostShare) Available(context.Context) bool { return true }

func (h hostShare) Share(_ context.Context, req share.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	cs := C.CString(string(payload))
	defer C.free(unsafe.Pointer(cs))

	switch code := C.nb_call_share(h.fn, cs); code {
	case 0:
		return nil
	case 1:
		return share.ErrDismissed
	default:
		return fmt.Errorf("share sheet failed (%d)", int(code))
	}
}

type hostClipboard struct{ fn C.nb_copy_fn }

func (h hostClipboard) Copy(_ context.Context, text string) error {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	if code := C.nb_call_copy(h.fn, cs); code != 0 {
		return fmt.Errorf("clipboard copy failed (%d)", int(code))
	}
	return nil
}

type hostPermissions struct{ fn C.nb_permission_fn }

func (h hostPermissions) Status(context.Context) (media.PermissionStatus, error) {
	return permissionStatus(C.nb_call_permission(h.fn, 0))
}

func (h hostPermissions) Request(context.Context) (media.PermissionStatus, error) {
	return permissionStatus(C.nb_call_permission(h.fn, 1))
}

func permissionStatus(code C.int) (media.PermissionStatus, error) {
	switch code {
	case 0:
		return media.PermissionGranted, nil
	case 1:
		return media.PermissionDenied, nil
	case 2:
		return media.PermissionUndetermined, nil
	}
	return "", fmt.Errorf("permission check failed (%d)", int(code))
}

type hostPicker struct{ fn C.nb_pick_fn }

func (h hostPicker) Pick(_ context.Context, opts media.PickOptions) (string, bool, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return "", false, err
	}
	cs := C.CString(string(payload))
	defer C.free(unsafe.Pointer(cs))
	buf := (*C.char)(C.calloc(1, C.size_t(pickBufferSize)))
	defer C.free(unsafe.Pointer(buf))

	switch code := C.nb_call_pick(h.fn, cs, buf, C.int(pickBufferSize)); code {
	case 0:
		return C.GoStringN(buf, C.int(C.strnlen(buf, C.size_t(pickBufferSize-1)))), false, nil
	case 1:
		return "", true, nil
	default:
		return "", false, errors.New("image picker failed")
	}
}

// =====================================================
// Memory Management Helpers
// =====================================================

//export FreeString
// FreeString frees a string allocated by Go.
func FreeString(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

func main() {
	// Main entry point for shared library
	// Not used when loaded as library
}

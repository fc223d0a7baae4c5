// Package share hands note text to the host share sheet, falling back to the
// clipboard and finally to showing the text to the user.
package share

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// ErrDismissed is returned by a Native implementation when the user closes the share sheet.
var ErrDismissed = errors.New("share dismissed")

// DialogTitle is the title shown on the share sheet.
const DialogTitle = "Share Note"

// Request is what the share sheet receives.
type Request struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	UTI      string `json:"uti"`
}

// Native is the platform share sheet.
type Native interface {
	Available(ctx context.Context) bool
	Share(ctx context.Context, req Request) error
}

// Clipboard copies text for the user.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// Result reports which path delivered the text.
type Result string

const (
	ResultShared    Result = "shared"
	ResultCancelled Result = "cancelled"
	ResultCopied    Result = "copied"
	// ResultShowText means no share path worked; the caller shows the text in an alert.
	ResultShowText Result = "show_text"
)

// Service shares note text.
type Service struct {
	native    Native
	clipboard Clipboard
	log       *logging.Logger
}

// NewService creates a Service. Either collaborator may be nil.
func NewService(native Native, clipboard Clipboard, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Get()
	}
	return &Service{native: native, clipboard: clipboard, log: log}
}

// Share delivers text through the share sheet, the clipboard, or neither.
// A dismissed share sheet is reported as ResultCancelled, not as an error.
func (s *Service) Share(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.ErrInvalid, "nothing to share")
	}

	if s.native != nil && s.native.Available(ctx) {
		err := s.native.Share(ctx, NewRequest(text))
		switch {
		case err == nil:
			return ResultShared, nil
		case errors.Is(err, ErrDismissed) || errors.Is(err, context.Canceled):
			return ResultCancelled, nil
		default:
			s.log.Warn("Share sheet failed, falling back to clipboard", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.clipboard != nil {
		err := s.clipboard.Copy(ctx, text)
		if err == nil {
			return ResultCopied, nil
		}
		s.log.Warn("Clipboard copy failed", map[string]interface{}{"error": err.Error()})
	}
	return ResultShowText, nil
}

// NewRequest builds the share sheet payload for text.
func NewRequest(text string) Request {
	return Request{
		Text:     text,
		Title:    DialogTitle,
		FileName: FileName(text),
		MimeType: "text/plain",
		UTI:      "public.plain-text",
	}
}

// FileName names the shared text file after the first 50 characters of the text.
func FileName(text string) string {
	if utf8.RuneCountInString(text) > 50 {
		text = string([]rune(text)[:50])
	}
	return text + ".txt"
}

package share

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

type fakeNative struct {
	available bool
	err       error
	got       *Request
}

func (f *fakeNative) Available(context.Context) bool { return f.available }

func (f *fakeNative) Share(_ context.Context, req Request) error {
	f.got = &req
	return f.err
}

type fakeClipboard struct {
	err    error
	copied string
}

func (f *fakeClipboard) Copy(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = text
	return nil
}

func TestService_Share(t *testing.T) {
	tests := []struct {
		name       string
		native     *fakeNative
		clipboard  *fakeClipboard
		want       Result
		wantCopied bool
	}{
		{"native share", &fakeNative{available: true}, &fakeClipboard{}, ResultShared, false},
		{"dismissed", &fakeNative{available: true, err: ErrDismissed}, &fakeClipboard{}, ResultCancelled, false},
		{"native failure falls back", &fakeNative{available: true, err: errors.New("boom")}, &fakeClipboard{}, ResultCopied, true},
		{"native unavailable", &fakeNative{available: false}, &fakeClipboard{}, ResultCopied, true},
		{"clipboard failure", &fakeNative{}, &fakeClipboard{err: errors.New("denied")}, ResultShowText, false},
		{"nothing available", nil, nil, ResultShowText, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var native Native
			if tt.native != nil {
				native = tt.native
			}
			var clipboard Clipboard
			if tt.clipboard != nil {
				clipboard = tt.clipboard
			}
			s := NewService(native, clipboard, logging.NewNop())

			got, err := s.Share(context.Background(), "hello world")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantCopied {
				assert.Equal(t, "hello world", tt.clipboard.copied)
			}
		})
	}
}

func TestService_ShareRequest(t *testing.T) {
	native := &fakeNative{available: true}
	s := NewService(native, nil, logging.NewNop())

	_, err := s.Share(context.Background(), "groceries")
	require.NoError(t, err)
	require.NotNil(t, native.got)
	assert.Equal(t, Request{
		Text:     "groceries",
		Title:    "Share Note",
		FileName: "groceries.txt",
		MimeType: "text/plain",
		UTI:      "public.plain-text",
	}, *native.got)
}

func TestService_ShareEmpty(t *testing.T) {
	s := NewService(&fakeNative{available: true}, nil, logging.NewNop())
	_, err := s.Share(context.Background(), "  \n")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalid, apperrors.CodeOf(err))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "short.txt", FileName("short"))
	assert.Equal(t, strings.Repeat("a", 50)+".txt", FileName(strings.Repeat("a", 80)))
	assert.Equal(t, strings.Repeat("é", 50)+".txt", FileName(strings.Repeat("é", 51)), "cut on characters, not bytes")
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/config"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
)

func newTestShell(t *testing.T, opts ...Option) (*Shell, *bootstrap.Container, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NOTEBOOKS_DATA_DIR", t.TempDir())
	t.Setenv("NOTEBOOKS_STORAGE", config.StorageMemory)

	core, err := bootstrap.NewContainer(context.Background(), config.FromEnv(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { core.Close() })

	var out bytes.Buffer
	return NewShell(core, &out, opts...), core, &out
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"ls", []string{"ls"}},
		{"  new   Work  #FF0000 ", []string{"new", "Work", "#FF0000"}},
		{`new "Road trip" #457B9D`, []string{"new", "Road trip", "#457B9D"}},
		{`note 1 "buy  milk"`, []string{"note", "1", "buy  milk"}},
		{`homebg ""`, []string{"homebg", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArgs(tt.input))
		})
	}
}

func TestShell_notebookCommands(t *testing.T) {
	sh, core, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, `new "Road trip" #457B9D`))
	assert.Contains(t, out.String(), "Created Road trip")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "ls"))
	assert.Contains(t, out.String(), " 1. Road trip")

	require.NoError(t, sh.Execute(ctx, `rename 1 "Summer trip"`))
	require.NoError(t, sh.Execute(ctx, `note 1 pack the tent`))
	require.NoError(t, sh.Execute(ctx, `note 1 "book ferry"`))

	nb := core.Notebooks.Notebooks()[0]
	assert.Equal(t, "Summer trip", nb.Name)
	require.Len(t, nb.Notes, 2)
	assert.Equal(t, "book ferry", nb.Notes[0].Text)
	assert.Equal(t, "pack the tent", nb.Notes[1].Text)

	require.NoError(t, sh.Execute(ctx, `edit 1 2 "pack the big tent"`))
	require.NoError(t, sh.Execute(ctx, "delnote 1 1"))
	nb = core.Notebooks.Notebooks()[0]
	require.Len(t, nb.Notes, 1)
	assert.Equal(t, "pack the big tent", nb.Notes[0].Text)

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "show "+nb.ID))
	assert.Contains(t, out.String(), "Summer trip")
	assert.Contains(t, out.String(), "1. pack the big tent")

	require.NoError(t, sh.Execute(ctx, "rm 1"))
	assert.Len(t, core.Notebooks.Notebooks(), 2)
}

func TestShell_errors(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx := context.Background()

	tests := []struct {
		line string
		code apperrors.ErrorCode
	}{
		{"frobnicate", apperrors.ErrInvalid},
		{"new OnlyName", apperrors.ErrInvalid},
		{"new Bad notacolor", apperrors.ErrInvalid},
		{"show 9", apperrors.ErrNotebookNotFound},
		{"show no-such-id", apperrors.ErrNotebookNotFound},
		{"delnote 1 5", apperrors.ErrNoteNotFound},
		{`note 1 "   "`, apperrors.ErrInvalid},
		{"opacity lots", apperrors.ErrInvalid},
		{"hue purple", apperrors.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := sh.Execute(ctx, tt.line)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err), "error: %v", err)
		})
	}

	assert.ErrorIs(t, sh.Execute(ctx, "exit"), errExit)
	assert.NoError(t, sh.Execute(ctx, "   "))
}

func TestShell_settings(t *testing.T) {
	sh, core, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, "dark"))
	assert.Contains(t, out.String(), "Theme: dark")
	assert.True(t, core.Notebooks.DarkMode())

	require.NoError(t, sh.Execute(ctx, "opacity 0.8"))
	require.NoError(t, sh.Execute(ctx, "homebg color #112233 0.4"))
	require.NoError(t, sh.Execute(ctx, "homebg file:///tmp/home.jpg"))

	hb := core.Notebooks.HomeBackground()
	assert.Equal(t, 0.8, hb.Opacity)
	assert.Equal(t, "#112233", hb.Color)
	assert.Equal(t, 0.4, hb.ColorOpacity)
	assert.Equal(t, "file:///tmp/home.jpg", hb.Image)

	require.NoError(t, sh.Execute(ctx, "homebg clear"))
	assert.Empty(t, core.Notebooks.HomeBackground().Image)
}

func TestShell_homeBackgroundImport(t *testing.T) {
	sh, core, _ := newTestShell(t)

	src := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, f.Close())

	require.NoError(t, sh.Execute(context.Background(), "homebg import "+src))
	uri := core.Notebooks.HomeBackground().Image
	assert.Contains(t, uri, core.Images.Dir())
	assert.Contains(t, uri, ".png")
}

func TestShell_onboardingAndShare(t *testing.T) {
	sh, _, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, "onboarding accept"))
	assert.Contains(t, out.String(), "privacy accepted: true  onboarding completed: false")
	require.NoError(t, sh.Execute(ctx, "onboarding complete"))
	require.NoError(t, sh.Execute(ctx, "onboarding reset"))
	assert.Contains(t, out.String(), "privacy accepted: false  onboarding completed: false")

	require.NoError(t, sh.Execute(ctx, `note 1 "call grandma"`))
	out.Reset()
	require.NoError(t, sh.Execute(ctx, "share 1 1"))
	assert.Equal(t, "call grandma.txt\n---\ncall grandma\n", out.String())
}

func TestShell_colorCommands(t *testing.T) {
	sh, _, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, "hsl 180 100 25"))
	assert.Equal(t, "#008080\n", out.String())

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "hue #00FF00"))
	assert.Contains(t, out.String(), "hue 120°")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "help"))
	assert.Contains(t, out.String(), "new <name> <color>")
}

type pathPicker struct{ path string }

func (p pathPicker) Pick(context.Context, media.PickOptions) (string, bool, error) {
	return p.path, p.path == "", nil
}

func writePhoto(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 9))))
	require.NoError(t, f.Close())
	return src
}

// TestShell_pick verifies pick commands import the chosen image.
func TestShell_pick(t *testing.T) {
	ctx := context.Background()

	sh, _, _ := newTestShell(t)
	err := sh.Execute(ctx, "homebg pick")
	assert.Equal(t, apperrors.ErrUnavailable, apperrors.CodeOf(err))

	sh, core, out := newTestShell(t, WithPicker(pathPicker{path: writePhoto(t)}))
	require.NoError(t, sh.Execute(ctx, "homebg pick"))
	assert.Contains(t, core.Notebooks.HomeBackground().Image, core.Images.Dir())
	assert.Contains(t, out.String(), "(12x9)")

	require.NoError(t, sh.Execute(ctx, "bg 1 pick"))
	nb := core.Notebooks.Notebooks()[0]
	assert.Contains(t, nb.BackgroundImage, core.Images.Dir())

	sh, _, _ = newTestShell(t, WithPicker(pathPicker{}))
	err = sh.Execute(ctx, "bg 1 pick")
	assert.Equal(t, apperrors.ErrCancelled, apperrors.CodeOf(err))
}

// TestShell_notebookBackground verifies clearing a notebook image resets its opacity.
func TestShell_notebookBackground(t *testing.T) {
	sh, core, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, "bg 1 file:///tmp/paper.jpg 0.9"))
	nb := core.Notebooks.Notebooks()[0]
	assert.Equal(t, "file:///tmp/paper.jpg", nb.BackgroundImage)
	assert.Equal(t, 0.9, *nb.BackgroundImageOpacity)

	require.NoError(t, sh.Execute(ctx, "bg 1 clear"))
	nb = core.Notebooks.Notebooks()[0]
	assert.Empty(t, nb.BackgroundImage)
	assert.Equal(t, models.ClearedNotebookImageOpacity, *nb.BackgroundImageOpacity)

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "bg 1"))
	assert.Contains(t, out.String(), "image (none)  opacity 0.30")

	err := sh.Execute(ctx, "bg 1 clear high")
	assert.Equal(t, apperrors.ErrInvalid, apperrors.CodeOf(err))
}

// TestShell_shareCopies verifies share uses the clipboard when one is configured.
func TestShell_shareCopies(t *testing.T) {
	var term bytes.Buffer
	sh, _, out := newTestShell(t, WithClipboard(osc52Clipboard{w: &term}))
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, `note 1 "call grandma"`))
	out.Reset()
	require.NoError(t, sh.Execute(ctx, "share 1 1"))
	assert.Equal(t, "Share: copied\n", out.String())
	assert.Equal(t, "\x1b]52;c;Y2FsbCBncmFuZG1h\a", term.String())
}

// TestShell_picker verifies the picker command opens on a color and drags sliders.
func TestShell_picker(t *testing.T) {
	sh, _, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.Execute(ctx, "picker #00FF00"))
	assert.Equal(t, "hue 120  saturation 100  lightness 50  alpha 100  #00ff00\n", out.String())

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "picker #00FF00 hue 50 100"))
	assert.True(t, strings.HasSuffix(out.String(), "#00ffff\n"), out.String())

	err := sh.Execute(ctx, "picker #00FF00 tint 1 2")
	assert.Equal(t, apperrors.ErrInvalid, apperrors.CodeOf(err))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/bootstrap"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/color"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/share"
)

// errExit is returned by the exit command.
var errExit = errors.New("exit requested")

// Shell executes developer commands against an open core.
type Shell struct {
	core        *bootstrap.Container
	share       *share.Service
	backgrounds *media.BackgroundPicker
	picker      media.Picker
	clipboard   share.Clipboard
	out         io.Writer
}

// Option configures a Shell.
type Option func(*Shell)

// WithPicker lets pick commands ask for an image.
func WithPicker(p media.Picker) Option {
	return func(s *Shell) { s.picker = p }
}

// WithClipboard gives the share command a clipboard.
func WithClipboard(c share.Clipboard) Option {
	return func(s *Shell) { s.clipboard = c }
}

// NewShell creates a shell over an open core. Without a picker the pick
// commands report UNAVAILABLE; without a clipboard share prints the note.
func NewShell(core *bootstrap.Container, out io.Writer, opts ...Option) *Shell {
	s := &Shell{core: core, out: out}
	for _, opt := range opts {
		opt(s)
	}
	s.share = share.NewService(nil, s.clipboard, core.Log)
	s.backgrounds = media.NewBackgroundPicker(media.NewImageSelector(nil, s.picker, core.Log), core.Images)
	return s
}

// ParseArgs splits a line on spaces, keeping double-quoted text together.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if inQuotes {
				current.WriteRune(char)
				continue
			}
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

// Execute runs one command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := ParseArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "ls":
		return s.handleList()
	case "show":
		return s.handleShow(args[1:])
	case "new":
		return s.handleNew(ctx, args[1:])
	case "rename":
		return s.handleRename(ctx, args[1:])
	case "rm":
		return s.handleRemove(ctx, args[1:])
	case "note":
		return s.handleNote(ctx, args[1:])
	case "edit":
		return s.handleEdit(ctx, args[1:])
	case "delnote":
		return s.handleDeleteNote(ctx, args[1:])
	case "bg":
		return s.handleNotebookBackground(ctx, args[1:])
	case "share":
		return s.handleShare(ctx, args[1:])
	case "dark":
		return s.handleDark(ctx)
	case "homebg":
		return s.handleHomeBackground(ctx, args[1:])
	case "opacity":
		return s.handleOpacity(ctx, args[1:])
	case "onboarding":
		return s.handleOnboarding(ctx, args[1:])
	case "hsl":
		return s.handleHSL(args[1:])
	case "hue":
		return s.handleHue(args[1:])
	case "picker":
		return s.handlePicker(args[1:])
	case "help":
		s.printHelp(args[1:])
		return nil
	case "exit", "quit":
		return errExit
	default:
		return apperrors.Newf(apperrors.ErrInvalid, "unknown command: %s", args[0])
	}
}

func usage(command string) error {
	return apperrors.Newf(apperrors.ErrInvalid, "usage: %s", commandHelp[command])
}

// notebookAt resolves a 1-based list position or a notebook ID.
func (s *Shell) notebookAt(ref string) (models.Notebook, error) {
	notebooks := s.core.Notebooks.Notebooks()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(notebooks) {
			return models.Notebook{}, apperrors.Newf(apperrors.ErrNotebookNotFound, "no notebook at position %d", n)
		}
		return notebooks[n-1], nil
	}
	return s.core.Notebooks.Notebook(ref)
}

// noteAt resolves a 1-based note position or a note ID within nb.
func noteAt(nb models.Notebook, ref string) (models.Note, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(nb.Notes) {
			return models.Note{}, apperrors.Newf(apperrors.ErrNoteNotFound, "no note at position %d", n)
		}
		return nb.Notes[n-1], nil
	}
	if i := nb.FindNote(ref); i >= 0 {
		return nb.Notes[i], nil
	}
	return models.Note{}, apperrors.Newf(apperrors.ErrNoteNotFound, "note %s not found", ref)
}

func (s *Shell) handleList() error {
	notebooks := s.core.Notebooks.Notebooks()
	if len(notebooks) == 0 {
		fmt.Fprintln(s.out, "No notebooks.")
		return nil
	}
	for i, nb := range notebooks {
		fmt.Fprintf(s.out, "%2d. %-24s %s  %d notes\n", i+1, nb.Name, nb.Color, len(nb.Notes))
	}
	return nil
}

func (s *Shell) handleShow(args []string) error {
	if len(args) != 1 {
		return usage("show")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n", nb.Name, nb.ID)
	fmt.Fprintf(s.out, "  color %s  background %s  text %s\n", nb.Color, nb.BackgroundColor, nb.TextColor)
	if nb.BackgroundImage != "" {
		fmt.Fprintf(s.out, "  background image %s\n", nb.BackgroundImage)
	}
	fmt.Fprintf(s.out, "  created %s\n", nb.CreatedAtTime().Format("2006-01-02 15:04"))
	for i, note := range nb.Notes {
		fmt.Fprintf(s.out, "  %2d. %s\n", i+1, note.Text)
	}
	return nil
}

func (s *Shell) handleNew(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return usage("new")
	}
	var bg, text string
	if len(args) > 2 {
		bg = args[2]
	}
	if len(args) > 3 {
		text = args[3]
	}
	nb, err := s.core.Notebooks.CreateNotebook(ctx, args[0], args[1], bg, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created %s (%s)\n", nb.Name, nb.ID)
	return nil
}

func (s *Shell) handleRename(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("rename")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	nb, err = s.core.Notebooks.UpdateNotebook(ctx, nb.ID, models.NotebookUpdate{Name: models.String(args[1])})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Renamed to %s\n", nb.Name)
	return nil
}

func (s *Shell) handleRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("rm")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	if err := s.core.Notebooks.DeleteNotebook(ctx, nb.ID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted %s and %d notes\n", nb.Name, len(nb.Notes))
	return nil
}

func (s *Shell) handleNote(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("note")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	note, err := s.core.Notebooks.AddNote(ctx, nb.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added note %s\n", note.ID)
	return nil
}

func (s *Shell) handleEdit(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("edit")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	note, err := noteAt(nb, args[1])
	if err != nil {
		return err
	}
	text := strings.Join(args[2:], " ")
	if _, err := s.core.Notebooks.UpdateNote(ctx, nb.ID, note.ID, models.NoteUpdate{Text: &text}); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Note updated")
	return nil
}

func (s *Shell) handleDeleteNote(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("delnote")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	note, err := noteAt(nb, args[1])
	if err != nil {
		return err
	}
	if err := s.core.Notebooks.DeleteNote(ctx, nb.ID, note.ID); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Note deleted")
	return nil
}

func (s *Shell) handleShare(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("share")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	note, err := noteAt(nb, args[1])
	if err != nil {
		return err
	}
	result, err := s.share.Share(ctx, note.Text)
	if err != nil {
		return err
	}
	switch result {
	case share.ResultShowText:
		fmt.Fprintf(s.out, "%s\n---\n%s\n", share.FileName(note.Text), note.Text)
	default:
		fmt.Fprintf(s.out, "Share: %s\n", result)
	}
	return nil
}

func (s *Shell) handleNotebookBackground(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return usage("bg")
	}
	nb, err := s.notebookAt(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		opacity, overlay, overlayOpacity := nb.BackgroundImageSettings()
		image := nb.BackgroundImage
		if image == "" {
			image = "(none)"
		}
		fmt.Fprintf(s.out, "image %s  opacity %.2f  overlay %s  overlay opacity %.2f\n", image, opacity, overlay, overlayOpacity)
		return nil
	}

	ch := models.BackgroundImageChange{URI: args[1]}
	switch args[1] {
	case "clear":
		ch.URI = ""
	case "pick":
		img, err := s.backgrounds.Pick(ctx)
		if err != nil {
			return err
		}
		ch.URI = img.URI
	}
	if len(args) == 3 {
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return usage("bg")
		}
		ch.Opacity = &v
	}

	opacity, overlay, overlayOpacity := ch.Resolve(nb)
	nb, err = s.core.Notebooks.SetNotebookBackgroundImage(ctx, nb.ID, ch.URI, opacity, overlay, overlayOpacity)
	if err != nil {
		return err
	}
	if nb.BackgroundImage == "" {
		fmt.Fprintf(s.out, "Background image removed from %s\n", nb.Name)
		return nil
	}
	fmt.Fprintf(s.out, "Background of %s set to %s\n", nb.Name, nb.BackgroundImage)
	return nil
}

func (s *Shell) handleDark(ctx context.Context) error {
	dark, err := s.core.Notebooks.ToggleDarkMode(ctx)
	if err != nil {
		return err
	}
	mode := "light"
	if dark {
		mode = "dark"
	}
	theme := color.ThemeFor(dark)
	fmt.Fprintf(s.out, "Theme: %s (background %s, text %s)\n", mode, theme.Background, theme.Text)
	return nil
}

func (s *Shell) handleHomeBackground(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		hb := s.core.Notebooks.HomeBackground()
		image := hb.Image
		if image == "" {
			image = "(none)"
		}
		fmt.Fprintf(s.out, "image %s  opacity %.2f  color %s  color opacity %.2f\n",
			image, hb.Opacity, hb.Color, hb.ColorOpacity)
		return nil

	case args[0] == "clear" && len(args) == 1:
		return s.core.Notebooks.SetHomeBackground(ctx, "")

	case args[0] == "import" && len(args) == 2:
		img, err := s.core.Images.Import(ctx, args[1])
		if err != nil {
			return err
		}
		if err := s.core.Notebooks.SetHomeBackground(ctx, img.URI); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Home background set to %s (%dx%d)\n", img.URI, img.Width, img.Height)
		return nil

	case args[0] == "pick" && len(args) == 1:
		img, err := s.backgrounds.Pick(ctx)
		if err != nil {
			return err
		}
		if _, err := s.core.Notebooks.UpdateHomeBackground(ctx, models.HomeBackgroundUpdate{Image: &img.URI}); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Home background set to %s (%dx%d)\n", img.URI, img.Width, img.Height)
		return nil

	case args[0] == "color" && (len(args) == 2 || len(args) == 3):
		u := models.HomeBackgroundUpdate{Color: &args[1]}
		if len(args) == 3 {
			v, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return usage("homebg")
			}
			u.ColorOpacity = &v
		}
		_, err := s.core.Notebooks.UpdateHomeBackground(ctx, u)
		return err

	case len(args) == 1:
		return s.core.Notebooks.SetHomeBackground(ctx, args[0])
	}
	return usage("homebg")
}

func (s *Shell) handleOpacity(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("opacity")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return usage("opacity")
	}
	if err := s.core.Notebooks.SetHomeBackgroundOpacity(ctx, v); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Home background opacity %.2f\n", s.core.Notebooks.HomeBackground().Opacity)
	return nil
}

func (s *Shell) handleOnboarding(ctx context.Context, args []string) error {
	var err error
	switch {
	case len(args) == 0:
	case args[0] == "accept":
		err = s.core.Onboarding.AcceptPrivacyPolicy(ctx)
	case args[0] == "complete":
		err = s.core.Onboarding.CompleteOnboarding(ctx)
	case args[0] == "reset":
		err = s.core.Onboarding.Reset(ctx)
	default:
		return usage("onboarding")
	}
	if err != nil {
		return err
	}
	st := s.core.Onboarding.State()
	fmt.Fprintf(s.out, "privacy accepted: %t  onboarding completed: %t\n", st.HasAcceptedPrivacyPolicy, st.HasCompletedOnboarding)
	return nil
}

func (s *Shell) handleHSL(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return usage("hsl")
	}
	values := make([]float64, 4)
	values[3] = 100
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return usage("hsl")
		}
		values[i] = v
	}
	fmt.Fprintln(s.out, color.HSLAToHex(values[0], values[1], values[2], values[3]))
	return nil
}

func (s *Shell) handleHue(args []string) error {
	if len(args) != 1 {
		return usage("hue")
	}
	if !color.IsHex(args[0]) {
		return apperrors.Newf(apperrors.ErrInvalid, "%q is not a hex color", args[0])
	}
	fmt.Fprintf(s.out, "hue %.0f° (slider position %.3f)\n", color.Hue(args[0]), color.HuePosition(args[0]))
	return nil
}

func (s *Shell) handlePicker(args []string) error {
	if len(args) != 1 && len(args) != 4 {
		return usage("picker")
	}
	if !color.IsHex(args[0]) {
		return apperrors.Newf(apperrors.ErrInvalid, "%q is not a hex color", args[0])
	}
	p := color.PickerFromHex(args[0])
	if len(args) == 4 {
		x, errX := strconv.ParseFloat(args[2], 64)
		width, errW := strconv.ParseFloat(args[3], 64)
		if errX != nil || errW != nil {
			return usage("picker")
		}
		if !p.Drag(args[1], x, width) {
			return apperrors.Newf(apperrors.ErrInvalid, "unknown slider %q", args[1])
		}
	}
	fmt.Fprintf(s.out, "hue %.0f  saturation %.0f  lightness %.0f  alpha %.0f  %s\n",
		p.Hue, p.Saturation, p.Lightness, p.Alpha, p.Hex())
	return nil
}

func (s *Shell) printHelp(args []string) {
	if len(args) > 0 {
		if help, ok := commandHelp[args[0]]; ok {
			fmt.Fprintln(s.out, help)
		} else {
			fmt.Fprintf(s.out, "Unknown command: %s\n", args[0])
		}
		return
	}
	names := make([]string, 0, len(commandHelp))
	for name := range commandHelp {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.out, "Available commands:")
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", commandHelp[name])
	}
	fmt.Fprintln(s.out, "Notebooks and notes are referenced by list position or ID. Quote text with spaces.")
}

var commandHelp = map[string]string{
	"ls":         "ls",
	"show":       "show <notebook>",
	"new":        "new <name> <color> [background] [text color]",
	"rename":     "rename <notebook> <name>",
	"rm":         "rm <notebook>",
	"note":       "note <notebook> <text>",
	"edit":       "edit <notebook> <note> <text>",
	"delnote":    "delnote <notebook> <note>",
	"bg":         "bg <notebook> [<uri> | clear | pick] [opacity]",
	"share":      "share <notebook> <note>",
	"dark":       "dark",
	"homebg":     "homebg [<uri> | clear | pick | import <path> | color <hex> [opacity]]",
	"opacity":    "opacity <0..1>",
	"onboarding": "onboarding [accept | complete | reset]",
	"hsl":        "hsl <hue> <saturation> <lightness> [alpha]",
	"hue":        "hue <hex>",
	"picker":     "picker <hex> [hue|saturation|lightness|alpha <x> <width>]",
	"help":       "help [command]",
	"exit":       "exit",
}

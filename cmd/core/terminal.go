package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
)

const shellPrompt = "notebooks> "

// promptPicker stands in for the photo library: it asks for an image path.
// An empty answer or ^C cancels.
type promptPicker struct {
	rl *readline.Instance
}

func (p promptPicker) Pick(_ context.Context, _ media.PickOptions) (string, bool, error) {
	p.rl.SetPrompt("image path: ")
	defer p.rl.SetPrompt(shellPrompt)

	line, err := p.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return "", true, nil
	case err != nil:
		return "", false, err
	}
	line = strings.TrimSpace(line)
	return line, line == "", nil
}

// osc52Clipboard copies text with the OSC 52 terminal escape, which most
// terminal emulators forward to the system clipboard.
type osc52Clipboard struct {
	w io.Writer
}

func (c osc52Clipboard) Copy(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.w, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	return err
}

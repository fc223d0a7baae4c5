package media

import "context"

// BackgroundPicker lets the user choose a photo and imports it.
type BackgroundPicker struct {
	selector *ImageSelector
	importer *Importer
}

// NewBackgroundPicker combines a selector and an importer.
func NewBackgroundPicker(selector *ImageSelector, importer *Importer) *BackgroundPicker {
	return &BackgroundPicker{selector: selector, importer: importer}
}

// Pick runs the photo library flow and returns the imported image.
// Cancellation and permission denial are returned as CANCELLED and PERMISSION_DENIED errors.
func (b *BackgroundPicker) Pick(ctx context.Context) (*Image, error) {
	uri, err := b.selector.Select(ctx)
	if err != nil {
		return nil, err
	}
	return b.importer.Import(ctx, uri)
}

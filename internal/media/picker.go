// Package media selects background images through the host photo library and
// imports them into the app's data directory.
package media

import (
	"context"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// PermissionStatus is the media library permission state reported by the host.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Permissions reports and requests media library access.
type Permissions interface {
	Status(ctx context.Context) (PermissionStatus, error)
	Request(ctx context.Context) (PermissionStatus, error)
}

// PickOptions are passed to the host picker.
type PickOptions struct {
	AllowsEditing bool    `json:"allowsEditing"`
	AspectX       int     `json:"aspectX"`
	AspectY       int     `json:"aspectY"`
	Quality       float64 `json:"quality"`
}

// DefaultPickOptions crops to 4:3 at 80% quality.
func DefaultPickOptions() PickOptions {
	return PickOptions{AllowsEditing: true, AspectX: 4, AspectY: 3, Quality: 0.8}
}

// Picker presents the host photo library. It returns cancelled=true when the
// user dismisses the picker without choosing an image.
type Picker interface {
	Pick(ctx context.Context, opts PickOptions) (uri string, cancelled bool, err error)
}

// ImageSelector runs the permission check and the picker.
type ImageSelector struct {
	perms  Permissions
	picker Picker
	opts   PickOptions
	log    *logging.Logger
}

// NewImageSelector creates a selector. A nil picker means the platform has no
// photo library; a nil perms means no permission is required.
func NewImageSelector(perms Permissions, picker Picker, log *logging.Logger) *ImageSelector {
	if log == nil {
		log = logging.Get()
	}
	return &ImageSelector{perms: perms, picker: picker, opts: DefaultPickOptions(), log: log}
}

// Select returns the URI of the chosen image. Permission is checked before
// every pick and requested when not yet granted.
func (s *ImageSelector) Select(ctx context.Context) (string, error) {
	if s.picker == nil {
		return "", apperrors.New(apperrors.ErrUnavailable, "image picker is not available")
	}
	if err := s.ensurePermission(ctx); err != nil {
		return "", err
	}

	uri, cancelled, err := s.picker.Pick(ctx, s.opts)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, "image picker failed", err)
	}
	if cancelled || uri == "" {
		return "", apperrors.New(apperrors.ErrCancelled, "image selection cancelled")
	}
	return uri, nil
}

func (s *ImageSelector) ensurePermission(ctx context.Context) error {
	if s.perms == nil {
		return nil
	}
	status, err := s.perms.Status(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPermission, "failed to check photo library permission", err)
	}
	if status == PermissionGranted {
		return nil
	}

	status, err = s.perms.Request(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPermission, "failed to request photo library permission", err)
	}
	if status != PermissionGranted {
		s.log.Info("Photo library permission denied", map[string]interface{}{"status": string(status)})
		return apperrors.New(apperrors.ErrPermission, "Please allow access to your photo library to select an image.")
	}
	return nil
}

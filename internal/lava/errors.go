package lava

import "errors"

var (
	// ErrTemplateNotFound is returned when no template search path
	// contains the requested job template.
	ErrTemplateNotFound = errors.New("job template not found")

	// ErrMalformedConfigName is returned when a cros:// defconfig does
	// not follow the ChromeOS config naming convention.
	ErrMalformedConfigName = errors.New("malformed CrOS defconfig")
)

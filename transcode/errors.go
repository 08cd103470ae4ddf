package transcode

import "errors"

// Input-validation errors. All of these are recoverable by the caller
// re-submitting a valid clip; none should crash the serving process.
var (
	// ErrUnsupportedFormat indicates the declared MIME type (or the sniffed
	// container) is not one of the supported formats.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrCorruptAudio indicates the container could not be parsed or the
	// decoded samples are structurally invalid.
	ErrCorruptAudio = errors.New("corrupt audio data")

	// ErrClipTooLong indicates the clip exceeds the configured maximum duration.
	ErrClipTooLong = errors.New("audio clip exceeds maximum duration")

	// ErrEmptyClip indicates decoding produced zero samples.
	ErrEmptyClip = errors.New("audio clip contains no samples")
)

package avifpix

import "errors"

// Errors returned by the reformatting and composition operations. Failing
// operations wrap these with context and never partially mutate their
// destination: work happens in temporaries and is committed on success.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnsupportedDepth    = errors.New("unsupported depth")
	ErrReformatFailed      = errors.New("reformat failed")
	ErrNotImplemented      = errors.New("not implemented")
	ErrInvalidImageGrid    = errors.New("invalid image grid")
	ErrOutOfMemory         = errors.New("allocation too large")
	ErrEncodeGainMapFailed = errors.New("encode gain map failed")
	ErrDecodeGainMapFailed = errors.New("decode gain map failed")
	ErrNoContent           = errors.New("no content")
	ErrUnknown             = errors.New("unknown error")
)

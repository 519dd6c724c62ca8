// Package avifpix implements the pixel reformatting and spatial composition
// layer of an AVIF image pipeline in pure Go.
//
// It sits between a decoded AV1 bitstream (plane buffers produced or consumed
// by an external codec) and the application-facing image: YUV<->RGB conversion
// with matrix-coefficient, range and chroma-layout awareness, clean-aperture
// crop geometry, zero-copy sub-image views, grid (tiled image) composition,
// downscaling, and the gain map metadata model for HDR alternate renditions.
// Container parsing and entropy coding are out of scope.
package avifpix

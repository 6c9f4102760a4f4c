package datastream

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// StremFormatVersion identifies the versioned binary export format.
const StremFormatVersion = "StremFormat v1.0.0"

// stremFormatFile is the on-disk shape of a StremFormat export: a
// small header (version and channels) followed by the frame window,
// all REZI-encoded together as this one struct.
type stremFormatFile struct {
	Version  string
	Channels []string
	Frames   []Frame
}

// ExportStremFormat encodes a window of frames (typically a Match's
// frames) into the versioned StremFormat binary encoding, using
// dekarrin/rezi's pointer-argument EncBinary/DecBinary convention.
func ExportStremFormat(frames []Frame, channels []string) []byte {
	file := &stremFormatFile{
		Version:  StremFormatVersion,
		Channels: channels,
		Frames:   frames,
	}
	return rezi.EncBinary(file)
}

// ImportStremFormat decodes a StremFormat export produced by
// ExportStremFormat. It returns an error when the data does not
// decode, when bytes are left over after decoding, or when the version
// header does not match StremFormatVersion.
func ImportStremFormat(data []byte) ([]Frame, []string, error) {
	var file stremFormatFile
	n, err := rezi.DecBinary(data, &file)
	if err != nil {
		return nil, nil, fmt.Errorf("datastream: REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, nil, fmt.Errorf("datastream: REZI decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}
	if file.Version != StremFormatVersion {
		return nil, nil, fmt.Errorf("datastream: unsupported stream format version %q", file.Version)
	}
	return file.Frames, file.Channels, nil
}

// Package loader reads and writes the LC-3 object image format: a
// big-endian sequence of 16-bit words, one contiguous (origin, length,
// words...) group per .ORIG/.END pair in the source (spec §6).
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Segment is one contiguous block of words with a fixed origin. Kept as
// its own type (rather than importing encoder's or vm's) so loader has no
// build-time dependency on either the assembler or the interpreter —
// cmd/lc3as and cmd/lc3vm do the one-line field conversion at the edges.
type Segment struct {
	Origin uint16
	Words  []uint16
}

// Image is an ordered list of segments, the assembler's complete output.
type Image []Segment

// WriteImage emits img as the canonical big-endian object format: for each
// segment, its origin, its word count, then its content words. The word
// count makes multi-segment images unambiguous to read back, since two
// adjacent segments would otherwise be indistinguishable from one
// contiguous block.
func WriteImage(w io.Writer, img Image) error {
	for _, seg := range img {
		if err := binary.Write(w, binary.BigEndian, seg.Origin); err != nil {
			return fmt.Errorf("write origin: %w", err)
		}
		if err := binary.Write(w, binary.BigEndian, uint16(len(seg.Words))); err != nil {
			return fmt.Errorf("write segment length: %w", err)
		}
		if err := binary.Write(w, binary.BigEndian, seg.Words); err != nil {
			return fmt.Errorf("write segment words: %w", err)
		}
	}
	return nil
}

// ReadImage parses the format WriteImage produces: repeating
// (origin, length, words...) groups until EOF.
func ReadImage(r io.Reader) (Image, error) {
	var img Image
	for {
		var origin, length uint16
		if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
			if err == io.EOF {
				return img, nil
			}
			return nil, fmt.Errorf("read origin: %w", err)
		}
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("read segment length: %w", err)
		}
		words := make([]uint16, length)
		if err := binary.Read(r, binary.BigEndian, words); err != nil {
			return nil, fmt.Errorf("read segment words: %w", err)
		}
		img = append(img, Segment{Origin: origin, Words: words})
	}
}

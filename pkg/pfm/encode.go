package pfm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/user/pfmshot/pkg/pipeline"
)

// Encode writes img to w as a PFM file with samples in the given byte order.
// Rows are written bottom row first.
func Encode(w io.Writer, img *pipeline.RasterImage, order binary.ByteOrder) error {
	stride := img.Width * pipeline.ChannelsPerPixel
	if len(img.Samples) != stride*img.Height {
		return fmt.Errorf("pfm: image has %d samples, expected %d", len(img.Samples), stride*img.Height)
	}

	header := fmt.Sprintf("%s\n%d %d\n%s\n", Signature, img.Width, img.Height, scaleToken(order))
	buf := make([]byte, len(header)+img.PayloadSize())
	offset := copy(buf, header)
	for y := img.Height - 1; y >= 0; y-- {
		for _, v := range img.Samples[y*stride : (y+1)*stride] {
			order.PutUint32(buf[offset:], math.Float32bits(v))
			offset += pipeline.BytesPerSample
		}
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("pfm: write: %w", err)
	}
	return nil
}

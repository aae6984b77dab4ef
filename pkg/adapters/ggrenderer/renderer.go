// Package ggrenderer provides a preview renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/pfmshot/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// ToneMap converts linear RGB float samples to an sRGB preview using the
// Reinhard operator. Samples are top row first. When opts.MaxSize is set
// the result is downscaled so its longest edge fits.
func (r *Renderer) ToneMap(width, height int, samples []float32, opts ports.PreviewOptions) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(samples) < width*height*3 {
		return img
	}

	gain := math.Exp2(opts.Exposure)
	for y := 0; y < height; y++ {
		row := samples[y*width*3 : (y+1)*width*3]
		pix := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			for c := 0; c < 3; c++ {
				pix[x*4+c] = toSRGB8(float64(row[x*3+c]) * gain)
			}
			pix[x*4+3] = 0xff
		}
	}

	w, h := fitWithin(width, height, opts.MaxSize)
	if w == width && h == height {
		return img
	}
	return r.ResizeImage(img, w, h)
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// EncodePNG encodes an image as PNG.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toSRGB8 maps a linear value through Reinhard and the sRGB transfer curve.
func toSRGB8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return 0xff
	}
	v = v / (1 + v)
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(math.Min(v, 1) * 255))
}

// fitWithin scales width and height down so neither exceeds maxSize,
// preserving the aspect ratio. Each edge stays at least one pixel.
func fitWithin(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	scale := float64(maxSize) / float64(max(width, height))
	w := max(1, int(math.Round(float64(width)*scale)))
	h := max(1, int(math.Round(float64(height)*scale)))
	return w, h
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

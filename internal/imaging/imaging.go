// Package imaging holds the small amount of pixel math the processing loop
// needs: grayscale conversion, sharpness and brightness measures, cropping and
// resizing. Frames are plain image.Image values; decoding is the caller's
// problem.
package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Luma returns the Rec. 709 luminance of a color scaled to [0, 255].
func Luma(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 257.0
}

// Grayscale extracts the region r of img as an 8-bit grayscale image using
// Rec. 709 luma weights. The region is clamped to the image bounds; an empty
// intersection yields a zero-sized image.
func Grayscale(img image.Image, r image.Rectangle) *image.Gray {
	r = r.Intersect(img.Bounds())
	out := image.NewGray(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(Luma(img.At(x, y))))})
		}
	}
	return out
}

// MeanBrightness returns the average pixel value of a grayscale image, or 0
// for an empty image.
func MeanBrightness(g *image.Gray) float64 {
	b := g.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			sum += float64(v)
		}
	}
	return sum / float64(n)
}

// LaplacianVariance measures local sharpness as the variance of a 4-neighbor
// Laplacian over the interior pixels. Low values mean a blurry region.
func LaplacianVariance(g *image.Gray) float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(g.Pix[y*g.Stride+x])
	}

	responses := make([]float64, 0, (w-2)*(h-2))
	var sum float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			responses = append(responses, lap)
			sum += lap
		}
	}

	mean := sum / float64(len(responses))
	var variance float64
	for _, v := range responses {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(responses))
}

// Crop copies the region r of img into a new RGBA image. The region is
// clamped to the image bounds.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(out, image.Point{}, img, r, draw.Src, nil)
	return out
}

// PadRect grows r by padFrac of its own size on every side and clamps the
// result to bounds. Used for face crops that need surrounding context.
func PadRect(r image.Rectangle, padFrac float64, bounds image.Rectangle) image.Rectangle {
	padX := int(float64(r.Dx()) * padFrac)
	padY := int(float64(r.Dy()) * padFrac)
	padded := image.Rect(r.Min.X-padX, r.Min.Y-padY, r.Max.X+padX, r.Max.Y+padY)
	return padded.Intersect(bounds)
}

// Resize scales img to width×height.
func Resize(img image.Image, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out
}

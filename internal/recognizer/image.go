package recognizer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/facekiosk/facekiosk/internal/constants"
)

// ResizeImage resizes an image to fit within maxSize (width or height) while
// keeping aspect ratio. The output is always JPEG, so payloads stay bounded
// regardless of the input format.
func ResizeImage(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Check if resizing is needed.
	if width <= maxSize && height <= maxSize {
		// Re-encode as JPEG to ensure consistent format.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), nil
	}

	// Calculate new dimensions.
	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	// Create resized image.
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	// Encode as JPEG.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// CropProfile produces a fixed-size square profile photo from a user-chosen
// crop region. Rotation is applied first in 90-degree steps (the frontend
// reports the step it used), then the square region is cut and scaled to
// outSize. This is a pure transform; no state survives the call.
func CropProfile(data []byte, cropX, cropY, cropSize, rotateDeg, outSize int) ([]byte, error) {
	if cropSize <= 0 {
		return nil, fmt.Errorf("crop size must be positive, got %d", cropSize)
	}
	if outSize <= 0 {
		outSize = constants.ProfilePhotoSize
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err = rotateQuarter(img, rotateDeg)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	crop := image.Rect(cropX, cropY, cropX+cropSize, cropY+cropSize).
		Add(bounds.Min).
		Intersect(bounds)
	if crop.Empty() {
		return nil, fmt.Errorf("crop region %dx%d at (%d,%d) is outside the image", cropSize, cropSize, cropX, cropY)
	}

	out := image.NewRGBA(image.Rect(0, 0, outSize, outSize))
	draw.CatmullRom.Scale(out, out.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode profile photo: %w", err)
	}
	return buf.Bytes(), nil
}

// rotateQuarter rotates an image clockwise in 90-degree steps.
func rotateQuarter(img image.Image, deg int) (image.Image, error) {
	deg = ((deg % 360) + 360) % 360
	if deg == 0 {
		return img, nil
	}
	if deg%90 != 0 {
		return nil, fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", deg)
	}

	src := img.Bounds()
	w, h := src.Dx(), src.Dy()

	var dst *image.RGBA
	if deg == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(src.Min.X+x, src.Min.Y+y)
			switch deg {
			case 90:
				dst.Set(h-1-y, x, c)
			case 180:
				dst.Set(w-1-x, h-1-y, c)
			case 270:
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst, nil
}

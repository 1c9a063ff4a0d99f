package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/polaris-cpu/types"
)

// The default gamma exponent applied to the rendered frame.
const DefaultGamma float32 = 0.6

// A rendered frame.
type Frame struct {
	Width  uint32
	Height uint32

	// Per-pixel radiance estimates in row-major order.
	Accum []types.Vec3

	// Gamma-corrected 8-bit RGB triplets in row-major order. Populated by
	// the GammaCorrect stage.
	Pix []uint8
}

// Create a new black frame.
func NewFrame(width, height uint32) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Accum:  make([]types.Vec3, int(width)*int(height)),
	}
}

// Get the radiance rows [blockY, blockY+blockH). The returned slice shares
// the frame storage and its capacity ends at the last row of the band.
func (f *Frame) Rows(blockY, blockH uint32) []types.Vec3 {
	start := int(blockY) * int(f.Width)
	end := int(blockY+blockH) * int(f.Width)
	return f.Accum[start:end:end]
}

// Convert the gamma corrected frame contents into an image.
func (f *Frame) Image() (*image.NRGBA, error) {
	if len(f.Pix) != 3*len(f.Accum) {
		return nil, ErrFrameNotGammaCorrected
	}

	im := image.NewNRGBA(image.Rect(0, 0, int(f.Width), int(f.Height)))
	for src, dst := 0, 0; src < len(f.Pix); src, dst = src+3, dst+4 {
		im.Pix[dst] = f.Pix[src]
		im.Pix[dst+1] = f.Pix[src+1]
		im.Pix[dst+2] = f.Pix[src+2]
		im.Pix[dst+3] = 255
	}
	return im, nil
}

// An alias for functions that are applied to the rendered frame once all
// tracers complete.
type PostProcessStage func(frame *Frame) (time.Duration, error)

// The default post-processing pipeline: gamma correction followed by saving
// the frame to imgFile.
func DefaultPipeline(imgFile string) []PostProcessStage {
	return []PostProcessStage{
		GammaCorrect(DefaultGamma),
		SaveImage(imgFile),
	}
}

// Clamp each radiance component to [0, 1], raise it to the gamma exponent
// and scale it to the [0, 255] range.
func GammaCorrect(gamma float32) PostProcessStage {
	return func(frame *Frame) (time.Duration, error) {
		start := time.Now()

		if len(frame.Pix) != 3*len(frame.Accum) {
			frame.Pix = make([]uint8, 3*len(frame.Accum))
		}
		for index, radiance := range frame.Accum {
			for c := 0; c < 3; c++ {
				frame.Pix[3*index+c] = uint8(255 * types.Pow(types.Clamp(radiance[c], 0, 1), gamma))
			}
		}

		return time.Since(start), nil
	}
}

// Write the gamma corrected frame to imgFile. Files with a .png extension are
// PNG encoded; all other files are written as binary PPM images.
func SaveImage(imgFile string) PostProcessStage {
	return func(frame *Frame) (time.Duration, error) {
		start := time.Now()

		if len(frame.Pix) != 3*len(frame.Accum) {
			return 0, ErrFrameNotGammaCorrected
		}

		f, err := os.Create(imgFile)
		if err != nil {
			return 0, fmt.Errorf("renderer: could not create %s: %v", imgFile, err)
		}
		defer f.Close()

		if strings.EqualFold(filepath.Ext(imgFile), ".png") {
			im, err := frame.Image()
			if err != nil {
				return 0, err
			}
			err = png.Encode(f, im)
			if err != nil {
				return 0, fmt.Errorf("renderer: could not encode %s: %v", imgFile, err)
			}
			return time.Since(start), nil
		}

		w := bufio.NewWriter(f)
		if err = writePPM(w, frame); err != nil {
			return 0, fmt.Errorf("renderer: could not write %s: %v", imgFile, err)
		}
		if err = w.Flush(); err != nil {
			return 0, fmt.Errorf("renderer: could not write %s: %v", imgFile, err)
		}
		return time.Since(start), nil
	}
}

// Write a binary (P6) PPM image.
func writePPM(w *bufio.Writer, frame *Frame) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return err
	}
	_, err := w.Write(frame.Pix)
	return err
}

package main

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const noisySuffix = "_augmented_noise"

// ErrImageNotFound marks a source image missing on disk. The batch loop
// drops the image and its annotations instead of aborting.
var ErrImageNotFound = errors.New("image not found")

// InjectNoise decodes one image, perturbs it with Gaussian noise of
// standard deviation noiseFactor, writes the result into outputDir and
// returns the written path together with the annotations remapped to
// newImageID. Geometry fields are left untouched.
func InjectNoise(imagePath string, anns []Annotation, outputDir string, newImageID int64, noiseFactor float64) (noisyPath string, out []Annotation, err error) {
	if _, serr := os.Stat(imagePath); os.IsNotExist(serr) {
		log.Printf("File not found: %s. Skipping this image.", imagePath)
		err = errors.Wrapf(ErrImageNotFound, "%s", imagePath)
		return
	}

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		err = errors.Errorf("cannot decode %s", imagePath)
		return
	}
	defer img.Close()

	applyGaussianNoise(&img, noiseFactor)

	noisyPath = filepath.Join(outputDir, noisyImageName(imagePath))
	if ok := gocv.IMWrite(noisyPath, img); !ok {
		err = errors.Errorf("cannot write %s", noisyPath)
		noisyPath = ""
		return
	}

	out = make([]Annotation, 0, len(anns))
	for _, a := range anns {
		out = append(out, a.WithImageID(newImageID))
	}

	return
}

// noisyImageName derives the output name from the source base name,
// always encoding to png.
func noisyImageName(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + noisySuffix + ".png"
}

// applyGaussianNoise adds N(0, sigma) noise to every channel byte. The
// sample is truncated to uint8 BEFORE the add, so extreme samples wrap
// around the 8-bit range instead of saturating; only the sum is clipped
// to [0, 255]. Downstream models were trained against exactly this
// sequencing, so it must not be replaced with a saturating cast.
func applyGaussianNoise(img *gocv.Mat, sigma float64) {
	ch := img.Channels()
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols(); x++ {
			for c := 0; c < ch; c++ {
				n := wrapByte(rand.NormFloat64() * sigma)
				v := int(img.GetUCharAt(y, x*ch+c)) + int(n)
				if v > 255 {
					v = 255
				}

				img.SetUCharAt(y, x*ch+c, uint8(v))
			}
		}
	}
}

// wrapByte truncates toward zero and wraps modulo 256, like a C cast.
func wrapByte(f float64) uint8 {
	return uint8(int64(f))
}

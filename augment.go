package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

const (
	// idOffset keeps augmented image ids clear of the source ids in
	// downstream tooling. Contract value, do not change.
	idOffset = 4200000

	// fileNamePrefixLen is the length of the fixed directory-prefix
	// token that source file_name entries carry and the local
	// images_<tag> layout does not.
	fileNamePrefixLen = 7
)

// datasetTag is the two-character shard suffix of the annotation file
// stem, e.g. frames_DK.json -> "DK".
func datasetTag(cocoJSONPath string) string {
	base := filepath.Base(cocoJSONPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) < 2 {
		return stem
	}

	return stem[len(stem)-2:]
}

// sourceImagePath resolves a file_name entry against the images_<tag>
// directory next to the annotation file, forward slashes regardless of
// host OS.
func sourceImagePath(cocoJSONPath, tag, fileName string) string {
	stripped := ""
	if len(fileName) > fileNamePrefixLen {
		stripped = fileName[fileNamePrefixLen:]
	}

	p := filepath.Join(filepath.Dir(cocoJSONPath), "images_"+tag, stripped)
	return filepath.ToSlash(p)
}

// AugmentDataset drives InjectNoise over every image of the annotation
// file at cocoJSONPath, strictly in input order, and writes the noisy
// images plus a new annotation file describing only the augmented
// images under outputDir.
func AugmentDataset(cocoJSONPath, outputDir string, noiseFactor float64) error {
	ds, err := LoadDataset(cocoJSONPath)
	if err != nil {
		return errors.Wrapf(err, "load %s", cocoJSONPath)
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return err
	}

	tag := datasetTag(cocoJSONPath)
	imagesSubdir := filepath.Join(outputDir, "images_"+tag)
	if err := os.MkdirAll(imagesSubdir, os.ModePerm); err != nil {
		return err
	}

	index, err := BuildAnnotationIndex(ds.Annotations)
	if err != nil {
		return errors.Wrapf(err, "index %s", cocoJSONPath)
	}

	newImages := make([]ImageInfo, 0, len(ds.Images))
	newAnnotations := make([]Annotation, 0, len(ds.Annotations))

	bar := progressbar.Default(int64(len(ds.Images)), "augmenting")
	for _, info := range ds.Images {
		_ = bar.Add(1)

		newID := info.ID + idOffset
		srcPath := sourceImagePath(cocoJSONPath, tag, info.FileName)

		noisyPath, anns, err := InjectNoise(srcPath, index[info.ID], imagesSubdir, newID, noiseFactor)
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				log.Printf("Removing annotations for image ID: %d", info.ID)
				continue
			}

			return err
		}

		newAnnotations = append(newAnnotations, anns...)
		newImages = append(newImages, ImageInfo{
			ID:       newID,
			FileName: annotationFileName(filepath.Base(noisyPath)),
			Width:    info.Width,
			Height:   info.Height,
		})
	}

	ds.Images = newImages
	ds.Annotations = newAnnotations

	return ds.Save(filepath.Join(outputDir, "augmented_noise_"+tag+".json"))
}

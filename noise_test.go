package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapByte(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{0.9, 0},
		{3.7, 3},
		{-0.5, 0},
		{-1.2, 255},
		{-3.7, 253},
		{255.9, 255},
		{256.2, 0},
		{300, 44},
		{-300, 212},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, wrapByte(c.in), "wrapByte(%v)", c.in)
	}
}

func TestNoisyImageName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"foo/a.jpg", "a_augmented_noise.png"},
		{"a.png", "a_augmented_noise.png"},
		{"dir/frame_0001.jpeg", "frame_0001_augmented_noise.png"},
		{"noext", "noext_augmented_noise.png"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, noisyImageName(c.in))
	}
}

func TestInjectNoiseMissingImage(t *testing.T) {
	outDir := t.TempDir()
	anns := []Annotation{{"image_id": []byte(`1`), "bbox": []byte(`[0, 0, 10, 10]`)}}

	path, out, err := InjectNoise(filepath.Join(t.TempDir(), "nope.png"), anns, outDir, 4200001, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImageNotFound))
	assert.Empty(t, path)
	assert.Empty(t, out)

	// nothing written on failure
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInjectNoiseRemap(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "a.png")
	writeSolidPNG(t, srcPath, 16, 8, 100, 150, 200)

	anns := []Annotation{
		{"id": []byte(`7`), "image_id": []byte(`1`), "bbox": []byte(`[0, 0, 10, 10]`), "category_id": []byte(`3`)},
		{"id": []byte(`8`), "image_id": []byte(`1`), "bbox": []byte(`[2, 2, 4, 4]`)},
	}

	path, out, err := InjectNoise(srcPath, anns, outDir, 4200001, 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "a_augmented_noise.png"), path)

	require.Len(t, out, 2)
	for i, a := range out {
		id, err := a.ImageID()
		require.NoError(t, err)
		assert.Equal(t, int64(4200001), id)
		assert.Equal(t, string(anns[i]["bbox"]), string(a["bbox"]))
	}

	// the input annotations keep their original image_id
	id, err := anns[0].ImageID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestInjectNoiseZeroSigmaIsIdentity(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "a.png")
	writeSolidPNG(t, srcPath, 16, 8, 100, 150, 200)

	path, _, err := InjectNoise(srcPath, nil, outDir, 4200001, 0)
	require.NoError(t, err)

	src := readTestImage(t, srcPath)
	dst := readTestImage(t, path)
	require.Equal(t, src.Bounds(), dst.Bounds())
	assert.True(t, sameRGB(src, dst), "zero sigma must leave pixels untouched")
}

func TestInjectNoisePerturbsPixels(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "a.png")
	writeSolidPNG(t, srcPath, 32, 32, 100, 150, 200)

	path, _, err := InjectNoise(srcPath, nil, outDir, 4200001, 20)
	require.NoError(t, err)

	src := readTestImage(t, srcPath)
	dst := readTestImage(t, path)
	require.Equal(t, src.Bounds(), dst.Bounds())
	assert.False(t, sameRGB(src, dst), "sigma 20 on 3072 samples must change some pixel")
}

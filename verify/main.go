// Command verify checks an augmented annotation file: referential
// integrity between annotations and images, and that every referenced
// image exists, decodes as png and matches its annotated size.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	annPath   = flag.String("ann", "", "augmented annotation file to check")
	imagesDir = flag.String("images", "", "directory holding the augmented images")
	workers   = flag.Int("workers", 10, "decode workers")
)

func checkImage(dir string, info ImageInfo) error {
	defer func() {
		if e := recover(); e != nil {
			log.Printf("Panic = %v, stack = %s", e, debug.Stack())
		}
	}()

	// file_name entries carry the Windows-style images\ prefix.
	name := info.FileName
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return err
	}

	b := img.Bounds()
	if b.Dx() != info.Width || b.Dy() != info.Height {
		return fmt.Errorf("image %d: size is %dx%d, annotated %dx%d", info.ID, b.Dx(), b.Dy(), info.Width, info.Height)
	}

	return nil
}

func main() {
	flag.Parse()

	if *annPath == "" || *imagesDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	annFile, err := LoadAnnotationFile(*annPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("#annotations = %d", len(annFile.Annotations))
	log.Printf("#images = %d", len(annFile.Images))

	imgs := BuildImageIndex(annFile.Images)

	var bad int64
	if len(imgs) != len(annFile.Images) {
		log.Printf("duplicate image ids")
		bad++
	}

	for _, a := range annFile.Annotations {
		if _, ok := imgs[a.ImgID]; !ok {
			log.Printf("annotation %d references missing image %d", a.ID, a.ImgID)
			bad++
		}
	}

	chImg := make(chan ImageInfo, 100)
	go func() {
		for _, info := range annFile.Images {
			chImg <- info
		}

		close(chImg)
	}()

	wg := sync.WaitGroup{}
	wg.Add(*workers)

	for i := 0; i < *workers; i++ {
		go func() {
			for info := range chImg {
				if err := checkImage(*imagesDir, info); err != nil {
					log.Print(err)
					atomic.AddInt64(&bad, 1)
				}
			}

			wg.Done()
		}()
	}

	wg.Wait()

	if bad > 0 {
		log.Fatalf("%d problem(s) found", bad)
	}

	log.Printf("OK")
}

package main

import (
	"bytes"
	"image/png"
	"log"

	"gocv.io/x/gocv"

	http "github.com/valyala/fasthttp"
)

// previewServer serves on-demand noisy renditions of dataset images so
// a noise factor can be eyeballed before committing to a batch run. It
// never writes dataset files.
type previewServer struct {
	cocoJSONPath string
	tag          string
	images       map[int64]ImageInfo
	annotations  map[int64][]Annotation
}

func newPreviewServer(cocoJSONPath string) (*previewServer, error) {
	ds, err := LoadDataset(cocoJSONPath)
	if err != nil {
		return nil, err
	}

	imgs := make(map[int64]ImageInfo, len(ds.Images))
	for _, info := range ds.Images {
		imgs[info.ID] = info
	}

	index, err := BuildAnnotationIndex(ds.Annotations)
	if err != nil {
		return nil, err
	}

	log.Printf("#images = %d", len(ds.Images))
	log.Printf("#annotations = %d", len(ds.Annotations))

	return &previewServer{
		cocoJSONPath: cocoJSONPath,
		tag:          datasetTag(cocoJSONPath),
		images:       imgs,
		annotations:  index,
	}, nil
}

func (s *previewServer) handle(c *http.RequestCtx) {
	id := int64(c.URI().QueryArgs().GetUintOrZero("id"))
	sigma := c.URI().QueryArgs().GetUfloatOrZero("sigma")
	box := c.URI().QueryArgs().Peek("box")

	info, ok := s.images[id]
	if !ok {
		log.Printf("No such image!")
		c.SetStatusCode(http.StatusNotFound)
		return
	}

	path := sourceImagePath(s.cocoJSONPath, s.tag, info.FileName)
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		log.Printf("Err [read] cannot open %s", path)
		c.SetStatusCode(http.StatusNotFound)
		return
	}
	defer img.Close()

	applyGaussianNoise(&img, sigma)

	if string(box) == "true" {
		frame, err := img.ToImage()
		if err != nil {
			log.Printf("Err [convert] %v", err)
			c.SetStatusCode(http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, drawAnnotationsOnImage(frame, s.annotations[id])); err != nil {
			log.Printf("Err [encode] %v", err)
			c.SetStatusCode(http.StatusInternalServerError)
			return
		}

		c.SetContentType("image/png")
		c.Write(buf.Bytes())
		return
	}

	data, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		log.Printf("Err [encode] %v", err)
		c.SetStatusCode(http.StatusInternalServerError)
		return
	}
	defer data.Close()

	c.SetContentType("image/jpeg")
	c.Write(data.GetBytes())
}

func runServer(listen, cocoJSONPath string) error {
	s, err := newPreviewServer(cocoJSONPath)
	if err != nil {
		return err
	}

	log.Printf("Serving...")
	return http.ListenAndServe(listen, s.handle)
}

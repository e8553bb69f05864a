package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
)

// annotationBBox reads a COCO [x, y, w, h] bbox. ok is false when the
// annotation carries no usable bbox.
func annotationBBox(a Annotation) (r image.Rectangle, ok bool) {
	raw, found := a["bbox"]
	if !found {
		return
	}

	var b []float64
	if err := json.Unmarshal(raw, &b); err != nil || len(b) != 4 {
		return
	}

	r = image.Rect(int(b[0]), int(b[1]), int(b[0]+b[2]), int(b[1]+b[3]))
	ok = true
	return
}

// annotationPolygons reads COCO polygon segmentation, a list of flat
// x,y coordinate runs.
func annotationPolygons(a Annotation) (polys [][]float64) {
	raw, found := a["segmentation"]
	if !found {
		return
	}

	if err := json.Unmarshal(raw, &polys); err != nil {
		return nil
	}

	return
}

func drawAnnotationsOnImage(src image.Image, anns []Annotation) *image.RGBA {
	r := image.NewRGBA(src.Bounds())
	draw.Draw(r, r.Bounds(), src, src.Bounds().Min, draw.Src)

	gc := draw2dimg.NewGraphicContext(r)
	gc.SetStrokeColor(color.RGBA{255, 255, 0, 255})
	gc.SetLineWidth(1)

	for _, a := range anns {
		if bbox, ok := annotationBBox(a); ok {
			gc.MoveTo(float64(bbox.Min.X), float64(bbox.Min.Y))
			gc.LineTo(float64(bbox.Max.X), float64(bbox.Min.Y))
			gc.LineTo(float64(bbox.Max.X), float64(bbox.Max.Y))
			gc.LineTo(float64(bbox.Min.X), float64(bbox.Max.Y))
			gc.Close()
			gc.Stroke()
		}

		for _, poly := range annotationPolygons(a) {
			if len(poly) < 4 {
				continue
			}

			gc.MoveTo(poly[len(poly)-2], poly[len(poly)-1])
			for i := 0; i+1 < len(poly); i += 2 {
				gc.LineTo(poly[i], poly[i+1])
			}

			gc.Close()
			gc.Stroke()
		}
	}

	return r
}

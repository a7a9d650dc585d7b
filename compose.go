package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	"collage/layout"
)

// prepare resizes and rotates one source to its placement.
func prepare(src image.Image, p layout.Placement) *image.NRGBA {
	img := imaging.Resize(src, p.Width, p.Height, imaging.Lanczos)
	if p.Rotation != 0 {
		img = imaging.Rotate(img, p.Rotation, color.NRGBA{})
	}
	return img
}

// CreateCollageImage draws the placements onto a canvas filled with bg.
// Images are prepared concurrently and pasted in placement order, so later
// placements cover earlier ones.
func CreateCollageImage(ctx context.Context, width, height int, bg color.NRGBA, placements []layout.Placement, images []image.Image) (*image.NRGBA, error) {
	prepared := make([]*image.NRGBA, len(placements))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, runtime.NumCPU())
	for i, p := range placements {
		if p.Index < 0 || p.Index >= len(images) {
			return nil, fmt.Errorf("placement %s: image index %d out of range", p.ID, p.Index)
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()
			prepared[i] = prepare(images[p.Index], p)
		}()
	}
	wg.Wait()

	dst := imaging.New(width, height, bg)
	for i, p := range placements {
		pt := p.Fit(width, height)
		dst = imaging.Overlay(dst, prepared[i], image.Pt(pt.X, pt.Y), 1.0)
	}
	return dst, nil
}

// saveImage writes img in the format implied by the path's extension.
func saveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"

	"collage/layout"
)

// supportedExts lists the file extensions picked up from the input directory.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Parallel runs fn for every index in [start, end) on up to NumCPU goroutines.
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := max((end-start)/numGoroutines, 1)
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// Source is one decoded input image.
type Source struct {
	Path  string
	Image image.Image
}

// Item returns the layout item describing the decoded image.
func (s Source) Item() layout.Item {
	b := s.Image.Bounds()
	return layout.NewItem(filepath.Base(s.Path), b.Dx(), b.Dy())
}

// listImageFiles returns the image paths in dir, optionally in natural order.
func listImageFiles(dir string, naturalSort bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if naturalSort {
		sort.Sort(natural.StringSlice(paths))
	}
	return paths, nil
}

// loadImages decodes every path in parallel. EXIF orientation is applied so
// the reported size matches what is drawn.
func loadImages(paths []string) ([]Source, error) {
	sources := make([]Source, len(paths))
	errs := make([]error, len(paths))
	Parallel(0, len(paths), func(i int) {
		img, err := imaging.Open(paths[i], imaging.AutoOrientation(true))
		if err != nil {
			errs[i] = fmt.Errorf("decode %s: %w", paths[i], err)
			return
		}
		sources[i] = Source{Path: paths[i], Image: img}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sources, nil
}

// readImageFiles lists and decodes the images of the input directory.
func (a *App) readImageFiles(opts *Options) ([]Source, error) {
	paths, err := listImageFiles(opts.InputDir, opts.IsFilesSort)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s: %w", opts.InputDir, layout.ErrEmptyInput)
	}
	a.logger.Info("found images", "count", len(paths), "dir", opts.InputDir)
	return loadImages(paths)
}

func sourceItems(sources []Source) []layout.Item {
	items := make([]layout.Item, len(sources))
	for i, s := range sources {
		items[i] = s.Item()
	}
	return items
}

package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth matches the widest content column.
	DefaultMaxWidth = 800
	jpegQuality     = 80
)

// Result describes one optimized image.
type Result struct {
	Source string
	Output string
	Width  int
	Height int
	Size   int
}

// Process decodes an image from src, downsizes it to maxWidth if wider, and
// encodes it as JPEG.
func Process(src io.Reader, maxWidth int) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && w > maxWidth {
		newH := max(h*maxWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// Optimize converts every PNG, JPEG and GIF under srcDir into a JPEG under
// dstDir named by OptimizedName. A missing srcDir is not an error.
func Optimize(srcDir, dstDir string, maxWidth int) ([]Result, error) {
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil, nil
	}
	var results []Result
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImage(p) {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		data, w, h, err := Process(f, maxWidth)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		out := filepath.Join(dstDir, filepath.FromSlash(OptimizedName(filepath.ToSlash(rel))))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		results = append(results, Result{Source: p, Output: out, Width: w, Height: h, Size: len(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

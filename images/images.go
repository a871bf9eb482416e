// Package images resolves image references in content to delivery URLs.
//
// A Provider is handed to whatever renders pages; nothing registers itself
// globally. Cloudinary serves transformed images from its CDN, Local serves
// JPEGs produced by Optimize during the build.
package images

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/syropia/syropia/content"
)

// Transform describes the delivery variant of an image.
type Transform struct {
	Width  int // 0 keeps the source width
	Height int
	Crop   string // Cloudinary crop mode, e.g. "fill" or "limit"
}

// Provider maps a source image reference to the URL pages should use.
type Provider interface {
	URL(src string, t Transform) string
}

// Cloudinary builds res.cloudinary.com delivery URLs.
type Cloudinary struct {
	CloudName string
	Secure    bool
	Folder    string // optional public ID prefix
}

// URL implements Provider. src is used as the public ID with its leading
// slash removed.
func (c Cloudinary) URL(src string, t Transform) string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	publicID := strings.TrimLeft(path.Clean("/"+src), "/")
	if c.Folder != "" {
		publicID = path.Join(strings.Trim(c.Folder, "/"), publicID)
	}
	return fmt.Sprintf("%s://res.cloudinary.com/%s/image/upload/%s/%s", scheme, c.CloudName, t.params(), publicID)
}

func (t Transform) params() string {
	var parts []string
	if t.Width > 0 || t.Height > 0 {
		crop := t.Crop
		if crop == "" {
			crop = "limit"
		}
		parts = append(parts, "c_"+crop)
	}
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	parts = append(parts, "q_auto", "f_auto")
	return strings.Join(parts, ",")
}

// Local points at JPEGs written by Optimize under Prefix. Transform is
// ignored: the build produces a single variant per source image.
type Local struct {
	Prefix string // URL path the optimized directory is served from, e.g. "/images"
}

// URL implements Provider.
func (l Local) URL(src string, _ Transform) string {
	prefix := "/" + strings.Trim(l.Prefix, "/")
	rel := strings.TrimPrefix(path.Clean("/"+src), prefix+"/")
	rel = strings.TrimLeft(rel, "/")
	return path.Join(prefix, OptimizedName(rel))
}

// OptimizedName returns the file name Optimize writes for a source path:
// the directory is kept and the base name is slugified with a .jpg suffix.
func OptimizedName(rel string) string {
	dir, file := path.Split(rel)
	base := strings.TrimSuffix(file, path.Ext(file))
	slug := content.Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return path.Join(dir, slug+".jpg")
}

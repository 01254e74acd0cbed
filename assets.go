package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// AssetStore accepts uploaded binary files, normalizes images (resize
// to maxImageWidth, re-encode as JPEG), and writes them under the
// public uploads directory. Saved assets resolve at Image.PublicURL.
type AssetStore struct {
	dir string // static root; uploads live in dir/uploads
}

// NewAssetStore creates an AssetStore rooted at the static dir.
func NewAssetStore(staticDir string) *AssetStore {
	return &AssetStore{dir: staticDir}
}

// Save processes src and writes it to the uploads dir under a unique
// slugged filename, avoiding collisions with both the filesystem and
// the already-recorded metadata in existing.
func (as *AssetStore) Save(src io.Reader, originalName string, existing []Image) (Image, error) {
	img, data, err := processImage(src, originalName)
	if err != nil {
		return Image{}, err
	}
	as.ensureUniqueFilename(&img, existing)

	dir := filepath.Join(as.dir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	return img, nil
}

// Remove deletes the stored file. A missing file is not an error.
func (as *AssetStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(as.dir, uploadsSubdir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// processImage decodes an image from src, resizes it down to
// maxImageWidth if wider, and encodes it as JPEG.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	ext := filepath.Ext(originalName)
	filename := Slugify(strings.TrimSuffix(originalName, ext)) + ".jpg"

	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC(),
	}, buf.Bytes(), nil
}

// ensureUniqueFilename appends a counter while the candidate name is
// taken on disk or in the metadata rows.
func (as *AssetStore) ensureUniqueFilename(img *Image, existing []Image) {
	dir := filepath.Join(as.dir, uploadsSubdir)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	counter := 1
	for {
		taken := false
		if _, err := os.Stat(filepath.Join(dir, candidate)); err == nil {
			taken = true
		}
		for _, ex := range existing {
			if ex.Filename == candidate {
				taken = true
				break
			}
		}
		if !taken {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
}

// --- handlers ---

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	existing, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	img, err := a.Assets.Save(src, file.Filename, existing)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" {
		return c.String(http.StatusBadRequest, "Filename required")
	}
	if !confirmed(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/images/")
	}
	if err := a.Assets.Remove(filename); err != nil {
		return err
	}
	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}

package monthversary

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

const (
	maxImageDimension = 1920
	jpegQuality       = 85
	maxUploadSize     = 12 << 20 // 12 MiB
)

var errUnsupportedMedia = fmt.Errorf("only image and audio files are allowed")

// processUpload turns an uploaded file into an embeddable data URI.
// Images are EXIF-oriented, downsized to fit within 1920x1920 (never
// enlarged) and re-encoded as quality-85 JPEG; audio passes through
// unchanged with its original MIME type.
func processUpload(data []byte, mimeType string) (string, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return processImage(data)
	case strings.HasPrefix(mimeType, "audio/"):
		return dataURI(mimeType, data), nil
	}
	return "", errUnsupportedMedia
}

func processImage(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Phone photos are often stored rotated with an orientation tag.
	img = applyOrientation(img, exifOrientation(data))

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageDimension || h > maxImageDimension {
		var nw, nh int
		if w >= h {
			nw = maxImageDimension
			nh = h * maxImageDimension / w
		} else {
			nh = maxImageDimension
			nw = w * maxImageDimension / h
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return dataURI("image/jpeg", buf.Bytes()), nil
}

func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// exifOrientation returns the EXIF orientation tag (1-8), or 1 when the
// image carries none.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// applyOrientation maps the eight EXIF orientations onto flip/rotate
// transforms so the decoded pixels end up upright.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return flipH(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipV(img)
	case 5:
		return flipH(rotate90(img))
	case 6:
		return rotate90(img)
	case 7:
		return flipH(rotate270(img))
	case 8:
		return rotate270(img)
	}
	return img
}

func rotate90(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.Y-1-y, x-b.Min.X, src.At(x, y))
		}
	}
	return dst
}

func rotate180(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, b.Max.Y-1-y, src.At(x, y))
		}
	}
	return dst
}

func rotate270(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(y-b.Min.Y, b.Max.X-1-x, src.At(x, y))
		}
	}
	return dst
}

func flipH(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, y-b.Min.Y, src.At(x, y))
		}
	}
	return dst
}

func flipV(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, b.Max.Y-1-y, src.At(x, y))
		}
	}
	return dst
}

// readUpload pulls one multipart file out of the request and enforces the
// size ceiling and MIME category before any processing happens.
func readUpload(c echo.Context, field string) ([]byte, string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	if file.Size > maxUploadSize {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "File too large (max 12MB)")
	}
	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "audio/") {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Only image and audio files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadSize {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "File too large (max 12MB)")
	}
	return data, mimeType, nil
}

func (a *App) handleUploadImage(c echo.Context) error {
	data, mimeType, err := readUpload(c, "image")
	if err != nil {
		return err
	}
	uri, err := processUpload(data, mimeType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"imageUrl": uri,
		"message":  "Image uploaded successfully",
	})
}

func (a *App) handleUploadAudio(c echo.Context) error {
	data, mimeType, err := readUpload(c, "audio")
	if err != nil {
		return err
	}
	uri, err := processUpload(data, mimeType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid audio: "+err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"audioUrl": uri,
		"message":  "Audio uploaded successfully",
	})
}

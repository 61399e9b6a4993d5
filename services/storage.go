package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"math"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/types"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	thumbnailMaxEdge = 640
	thumbnailQuality = 85
	thumbnailSuffix  = "_thumbnail.jpg"
)

// StorageBackend persists media assets and derives their public URLs. URLs
// must be computable from a key alone; deferred uploads depend on that.
type StorageBackend interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	BuildURL(key string) string
	SupportsDeferredUpload() bool
}

type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
	PathPrefix  string
}

type UploadResult struct {
	OriginalURL  string
	ThumbnailURL string
	Metadata     *types.ImageMetadata
}

// StorageService validates uploads, extracts EXIF metadata, produces a resized
// preview and persists both forms through the configured backend. Constructed
// once at startup and injected into the controllers that need it.
type StorageService struct {
	backend StorageBackend
	wg      sync.WaitGroup
}

func NewStorageServiceWithBackend(backend StorageBackend) *StorageService {
	return &StorageService{backend: backend}
}

// UploadImage runs the full ingestion pipeline. The original bytes are always
// uploaded synchronously; the thumbnail write is deferred to a background
// goroutine when the backend supports deterministic URLs. A deferred write
// that fails is logged and not repaired.
func (s *StorageService) UploadImage(ctx context.Context, upload ImageUpload) (*UploadResult, error) {
	if len(upload.Data) == 0 {
		return nil, apperror.ImageValidation("Uploaded file is empty")
	}

	img, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, apperror.ImageValidation("Uploaded file is not a valid image")
	}

	var metadata *types.ImageMetadata
	if x, err := exif.Decode(bytes.NewReader(upload.Data)); err == nil {
		img = normalizeOrientation(img, x)
		metadata = extractMetadata(x)
	}

	extension := detectExtension(upload.Filename, upload.ContentType, format)
	contentType := detectContentType(upload.ContentType, format, extension)
	originalKey := upload.PathPrefix + extension
	thumbnailKey := upload.PathPrefix + thumbnailSuffix

	originalURL, err := s.backend.Upload(ctx, originalKey, upload.Data, contentType)
	if err != nil {
		return nil, err
	}

	thumbnailBytes, err := buildThumbnailBytes(img)
	if err != nil {
		return nil, err
	}

	var thumbnailURL string
	if s.backend.SupportsDeferredUpload() {
		thumbnailURL = s.backend.BuildURL(thumbnailKey)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if _, err := s.backend.Upload(context.Background(), thumbnailKey, thumbnailBytes, "image/jpeg"); err != nil {
				log.Printf("deferred thumbnail upload failed for %s: %v", thumbnailKey, err)
			}
		}()
	} else {
		thumbnailURL, err = s.backend.Upload(ctx, thumbnailKey, thumbnailBytes, "image/jpeg")
		if err != nil {
			return nil, err
		}
	}

	return &UploadResult{
		OriginalURL:  originalURL,
		ThumbnailURL: thumbnailURL,
		Metadata:     metadata,
	}, nil
}

// Wait blocks until every deferred thumbnail upload has finished. Used on
// shutdown and in tests.
func (s *StorageService) Wait() {
	s.wg.Wait()
}

func buildThumbnailBytes(img image.Image) ([]byte, error) {
	thumbnail := imaging.Fit(img, thumbnailMaxEdge, thumbnailMaxEdge, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeOrientation(img image.Image, x *exif.Exif) image.Image {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

var formatContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func detectExtension(filename, declaredType, format string) string {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" && format != "" {
		extension = "." + strings.ToLower(format)
	}
	if extension == "" && declaredType != "" {
		if guessed, err := mime.ExtensionsByType(declaredType); err == nil && len(guessed) > 0 {
			extension = guessed[0]
		}
	}
	if extension == "" {
		extension = ".jpg"
	}
	if extension == ".jpeg" || extension == ".jpe" {
		extension = ".jpg"
	}
	return extension
}

func detectContentType(declaredType, format, extension string) string {
	if declaredType != "" {
		return declaredType
	}
	if contentType, ok := formatContentTypes[strings.ToLower(format)]; ok {
		return contentType
	}
	if guessed := mime.TypeByExtension(extension); guessed != "" {
		return guessed
	}
	return "image/jpeg"
}

func extractMetadata(x *exif.Exif) *types.ImageMetadata {
	metadata := &types.ImageMetadata{}

	if value, err := stringTag(x, exif.Make); err == nil {
		metadata.Make = value
	}
	if value, err := stringTag(x, exif.Model); err == nil {
		metadata.Model = value
	}
	if value, err := stringTag(x, exif.DateTimeOriginal); err == nil {
		metadata.DateTimeOriginal = parseExifDatetime(value)
	}
	if value, err := stringTag(x, exif.DateTimeDigitized); err == nil {
		metadata.DateTimeDigitized = parseExifDatetime(value)
	}
	if num, den, err := ratTag(x, exif.ExposureTime); err == nil {
		metadata.ExposureTime = formatExposure(num, den)
	}
	if num, den, err := ratTag(x, exif.FNumber); err == nil && den != 0 {
		value := float64(num) / float64(den)
		metadata.FNumber = &value
	}
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if value, err := tag.Int(0); err == nil {
			metadata.ISOSpeed = &value
		}
	}
	if num, den, err := ratTag(x, exif.FocalLength); err == nil && den != 0 {
		value := float64(num) / float64(den)
		metadata.FocalLength = &value
	}
	metadata.GPS = extractGPS(x)

	return metadata
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", err
	}
	return tag.StringVal()
}

func ratTag(x *exif.Exif, name exif.FieldName) (int64, int64, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, 0, err
	}
	return tag.Rat2(0)
}

// parseExifDatetime parses the fixed EXIF datetime layout; unparsable values
// are omitted rather than failing the upload.
func parseExifDatetime(raw string) *time.Time {
	parsed, err := time.Parse("2006:01:02 15:04:05", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// formatExposure renders exposure as "N.Ns" for values >= 1s and "1/Ns"
// otherwise.
func formatExposure(num, den int64) string {
	if num == 0 || den == 0 {
		return ""
	}
	value := float64(num) / float64(den)
	if value >= 1 {
		return fmt.Sprintf("%.1fs", value)
	}
	return fmt.Sprintf("1/%ds", int(math.Round(1/value)))
}

func extractGPS(x *exif.Exif) *types.GPSMetadata {
	latitude := gpsCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	longitude := gpsCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if latitude == nil && longitude == nil {
		return nil
	}
	return &types.GPSMetadata{Latitude: latitude, Longitude: longitude}
}

func gpsCoordinate(x *exif.Exif, coordName, refName exif.FieldName) *float64 {
	tag, err := x.Get(coordName)
	if err != nil {
		return nil
	}
	parts := make([]float64, 3)
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return nil
		}
		parts[i] = float64(num) / float64(den)
	}
	ref, err := stringTag(x, refName)
	if err != nil {
		return nil
	}
	value := gpsToDecimal(parts[0], parts[1], parts[2], ref)
	return &value
}

// gpsToDecimal converts degrees/minutes/seconds plus hemisphere reference to
// signed decimal degrees; S and W negate the value.
func gpsToDecimal(degrees, minutes, seconds float64, ref string) float64 {
	value := degrees + minutes/60 + seconds/3600
	switch strings.ToUpper(ref) {
	case "S", "W":
		return -value
	}
	return value
}

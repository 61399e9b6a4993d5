package types

import "time"

type GPSMetadata struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ImageMetadata is the subset of EXIF data surfaced to API consumers.
type ImageMetadata struct {
	Make              string       `json:"make,omitempty"`
	Model             string       `json:"model,omitempty"`
	DateTimeOriginal  *time.Time   `json:"datetime_original,omitempty"`
	DateTimeDigitized *time.Time   `json:"datetime_digitized,omitempty"`
	ExposureTime      string       `json:"exposure_time,omitempty"`
	FNumber           *float64     `json:"f_number,omitempty"`
	ISOSpeed          *int         `json:"iso_speed,omitempty"`
	FocalLength       *float64     `json:"focal_length,omitempty"`
	GPS               *GPSMetadata `json:"gps,omitempty"`
}

package domain

import "time"

// Upload is an image a trader attached to a payment proof or a trade.
type Upload struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	OriginalName string    `json:"name"`
	FilePath     string    `json:"-"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

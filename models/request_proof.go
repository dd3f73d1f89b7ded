package models

import "time"

// RequestProof: bukti penggunaan dana untuk pengajuan yang sudah dicairkan.
type RequestProof struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID uint   `gorm:"index;not null" json:"request_id"`
	FileURL   string `gorm:"size:255;not null" json:"file_url"`
	FileName  string `gorm:"size:180;not null" json:"file_name"`
	MimeType  string `gorm:"size:80;not null" json:"mime_type"`
	Size      int64  `gorm:"not null" json:"size"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

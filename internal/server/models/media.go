package models

import "strconv"

// Media is an uploaded binary payload's metadata. The payload itself lives
// in the payload store under FileName().
type Media struct {
	ID          uint64 `json:"id"`
	Owner       uint64 `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Extension includes the leading dot, e.g. ".png".
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	// Checksum is the hex blake2b-256 digest of the payload.
	Checksum string `json:"checksum"`
}

func (m Media) Key() uint64 { return m.ID }

func (m Media) WithKey(id uint64) Media {
	m.ID = id
	return m
}

// FileName is the payload name: the decimal id followed by the extension.
func (m Media) FileName() string {
	return strconv.FormatUint(m.ID, 10) + m.Extension
}

// MediaPatch lists the metadata an update may change. Extension, size,
// checksum and the payload are immutable once created.
type MediaPatch struct {
	Name        *string
	Description *string
	Owner       *uint64
}

func (p MediaPatch) Apply(m Media) Media {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Owner != nil {
		m.Owner = *p.Owner
	}
	return m
}

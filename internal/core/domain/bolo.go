package domain

import (
	"maps"
	"time"
)

// boloFields is the canonical attribute set of a Bolo, in diff order.
var boloFields = []string{
	"id", "name", "category", "summary",
	"race", "sex", "height", "weight", "hair_color",
	"agency", "author", "attachments", "date_created",
}

// Attachment describes a piece of stored media attached to a bolo record.
// Location is the storage key of the binary content.
type Attachment struct {
	ContentType string `json:"content_type"`
	Location    string `json:"location"`
	Size        int64  `json:"size,omitempty"`
}

// AttachmentUpload is media supplied by a caller alongside a bolo write.
// Content takes precedence; when nil the bytes are read from Path.
type AttachmentUpload struct {
	Name        string
	ContentType string
	Path        string
	Content     []byte
}

// BoloDTO is the untrusted input shape for bolo writes.
type BoloDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Summary   string `json:"summary"`
	Race      string `json:"race"`
	Sex       string `json:"sex"`
	Height    string `json:"height"`
	Weight    string `json:"weight"`
	HairColor string `json:"hair_color"`
	Agency    string `json:"agency"`
	Author    string `json:"author"`
}

// Bolo is a "Be On the LookOut" flier record. Attachments map file names to
// stored-media descriptors; once attached, media survives later updates
// unless explicitly replaced under the same name.
type Bolo struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Summary     string                `json:"summary,omitempty"`
	Race        string                `json:"race,omitempty"`
	Sex         string                `json:"sex,omitempty"`
	Height      string                `json:"height,omitempty"`
	Weight      string                `json:"weight,omitempty"`
	HairColor   string                `json:"hair_color,omitempty"`
	Agency      string                `json:"agency,omitempty"`
	Author      string                `json:"author,omitempty"`
	Attachments map[string]Attachment `json:"attachments,omitempty"`
	DateCreated time.Time             `json:"date_created"`
}

// NewBolo builds a Bolo from an untrusted DTO. It never fails; validity is
// checked separately by IsValid.
func NewBolo(dto BoloDTO) *Bolo {
	return &Bolo{
		ID:          dto.ID,
		Name:        dto.Name,
		Category:    dto.Category,
		Summary:     dto.Summary,
		Race:        dto.Race,
		Sex:         dto.Sex,
		Height:      dto.Height,
		Weight:      dto.Weight,
		HairColor:   dto.HairColor,
		Agency:      dto.Agency,
		Author:      dto.Author,
		Attachments: make(map[string]Attachment),
	}
}

// Apply overlays the non-empty DTO fields onto a copy of the stored bolo.
// Empty DTO fields keep the stored value, so a partial update cannot blank
// attributes it never mentioned. Attachments are untouched.
func (b *Bolo) Apply(dto BoloDTO) *Bolo {
	out := *b
	out.Attachments = maps.Clone(b.Attachments)

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Name, dto.Name)
	set(&out.Category, dto.Category)
	set(&out.Summary, dto.Summary)
	set(&out.Race, dto.Race)
	set(&out.Sex, dto.Sex)
	set(&out.Height, dto.Height)
	set(&out.Weight, dto.Weight)
	set(&out.HairColor, dto.HairColor)
	set(&out.Agency, dto.Agency)
	set(&out.Author, dto.Author)
	return &out
}

// MissingFields lists the required attributes that are empty.
func (b *Bolo) MissingFields() []string {
	var missing []string
	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Category == "" {
		missing = append(missing, "category")
	}
	return missing
}

// IsValid reports whether the bolo carries every required field.
func (b *Bolo) IsValid() bool {
	return len(b.MissingFields()) == 0
}

// Diff returns the names of the attributes whose values differ between the
// two bolos, in canonical field order. The attachment map is compared by
// deep equality, timestamps by instant.
func (b *Bolo) Diff(other *Bolo) []string {
	var changed []string
	for _, field := range boloFields {
		switch field {
		case "attachments":
			if !maps.Equal(b.Attachments, other.Attachments) {
				changed = append(changed, field)
			}
		case "date_created":
			if !b.DateCreated.Equal(other.DateCreated) {
				changed = append(changed, field)
			}
		default:
			if b.attr(field) != other.attr(field) {
				changed = append(changed, field)
			}
		}
	}
	return changed
}

func (b *Bolo) attr(field string) string {
	switch field {
	case "id":
		return b.ID
	case "name":
		return b.Name
	case "category":
		return b.Category
	case "summary":
		return b.Summary
	case "race":
		return b.Race
	case "sex":
		return b.Sex
	case "height":
		return b.Height
	case "weight":
		return b.Weight
	case "hair_color":
		return b.HairColor
	case "agency":
		return b.Agency
	case "author":
		return b.Author
	}
	return ""
}

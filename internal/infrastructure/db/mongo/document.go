package mongo

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

// All entity kinds share the documents collection; the type field
// discriminates between them, mirroring the legacy single-database layout.
const (
	documentsCollection = "bolo_documents"

	typeUser = "user"
	typeBolo = "bolo"
)

// newRev mints an opaque revision token. Every write stores a fresh token so
// concurrent writers can be detected by compare-and-swap on (_id, rev).
func newRev() string {
	return uuid.NewString()
}

// userDocument is the stored shape of a User. The identity, revision and
// type fields exist only at this layer and are stripped when mapping back.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Rev       string             `bson:"rev"`
	Type      string             `bson:"type"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Email     string             `bson:"email,omitempty"`
	FirstName string             `bson:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty"`
	Agency    string             `bson:"agency,omitempty"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		Type:      typeUser,
		Username:  u.Username,
		Password:  u.Password,
		Role:      u.Role,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Agency:    u.Agency,
	}
}

func (d userDocument) toUser() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Agency:    d.Agency,
	}
}

// attachmentDocument is the stored shape of an attachment descriptor.
type attachmentDocument struct {
	ContentType string `bson:"content_type"`
	Location    string `bson:"location"`
	Size        int64  `bson:"size,omitempty"`
}

// boloDocument is the stored shape of a Bolo.
type boloDocument struct {
	ID          primitive.ObjectID            `bson:"_id,omitempty"`
	Rev         string                        `bson:"rev"`
	Type        string                        `bson:"type"`
	Name        string                        `bson:"name"`
	Category    string                        `bson:"category"`
	Summary     string                        `bson:"summary,omitempty"`
	Race        string                        `bson:"race,omitempty"`
	Sex         string                        `bson:"sex,omitempty"`
	Height      string                        `bson:"height,omitempty"`
	Weight      string                        `bson:"weight,omitempty"`
	HairColor   string                        `bson:"hair_color,omitempty"`
	Agency      string                        `bson:"agency,omitempty"`
	Author      string                        `bson:"author,omitempty"`
	Attachments map[string]attachmentDocument `bson:"attachments,omitempty"`
	DateCreated int64                         `bson:"date_created"` // unix nanoseconds
}

func newBoloDocument(b *domain.Bolo) boloDocument {
	doc := boloDocument{
		Type:        typeBolo,
		Name:        b.Name,
		Category:    b.Category,
		Summary:     b.Summary,
		Race:        b.Race,
		Sex:         b.Sex,
		Height:      b.Height,
		Weight:      b.Weight,
		HairColor:   b.HairColor,
		Agency:      b.Agency,
		Author:      b.Author,
		Attachments: make(map[string]attachmentDocument, len(b.Attachments)),
	}
	for name, a := range b.Attachments {
		doc.Attachments[name] = attachmentDocument{
			ContentType: a.ContentType,
			Location:    a.Location,
			Size:        a.Size,
		}
	}
	if !b.DateCreated.IsZero() {
		doc.DateCreated = b.DateCreated.UnixNano()
	}
	return doc
}

func (d boloDocument) toBolo() *domain.Bolo {
	b := &domain.Bolo{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		Summary:     d.Summary,
		Race:        d.Race,
		Sex:         d.Sex,
		Height:      d.Height,
		Weight:      d.Weight,
		HairColor:   d.HairColor,
		Agency:      d.Agency,
		Author:      d.Author,
		Attachments: make(map[string]domain.Attachment, len(d.Attachments)),
		DateCreated: unixToTime(d.DateCreated),
	}
	for name, a := range d.Attachments {
		b.Attachments[name] = domain.Attachment{
			ContentType: a.ContentType,
			Location:    a.Location,
			Size:        a.Size,
		}
	}
	return b
}

// mergeAttachments unions the stored descriptor map with newly supplied
// descriptors. Supplied entries win per name; everything else survives, so a
// text-only update cannot drop attached media.
func mergeAttachments(stored, supplied map[string]attachmentDocument) map[string]attachmentDocument {
	merged := make(map[string]attachmentDocument, len(stored)+len(supplied))
	for name, a := range stored {
		merged[name] = a
	}
	for name, a := range supplied {
		merged[name] = a
	}
	return merged
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(0, ts).UTC()
}

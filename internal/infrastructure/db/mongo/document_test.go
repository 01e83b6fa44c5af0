package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

func TestUserDocumentRoundTrip(t *testing.T) {
	user := &domain.User{
		Username:  "jdoe",
		Password:  "secret",
		Role:      domain.RoleOfficer,
		Email:     "jdoe@pd.example",
		FirstName: "John",
		LastName:  "Doe",
		Agency:    "Metro PD",
	}

	doc := newUserDocument(user)
	if doc.Type != typeUser {
		t.Fatalf("expected type %q, got %q", typeUser, doc.Type)
	}
	doc.ID = primitive.NewObjectID()

	got := doc.toUser()
	if got.ID != doc.ID.Hex() {
		t.Fatalf("id not mapped from document: %q", got.ID)
	}
	got.ID = ""
	if fields := user.Diff(got); len(fields) != 0 {
		t.Fatalf("round trip changed fields %v", fields)
	}
}

func TestBoloDocumentRoundTrip(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 30, 0, 123456789, time.UTC)
	bolo := &domain.Bolo{
		Name:      "John Doe",
		Category:  "Robbery",
		Summary:   "seen near 5th and Main",
		Race:      "unknown",
		Sex:       "M",
		Height:    "6'1\"",
		Weight:    "180",
		HairColor: "brown",
		Agency:    "Metro PD",
		Author:    "jdoe",
		Attachments: map[string]domain.Attachment{
			"suspect.png": {ContentType: "image/png", Location: "blob/abc", Size: 1024},
		},
		DateCreated: created,
	}

	doc := newBoloDocument(bolo)
	if doc.Type != typeBolo {
		t.Fatalf("expected type %q, got %q", typeBolo, doc.Type)
	}
	if doc.DateCreated != created.UnixNano() {
		t.Fatalf("date_created stored as %d, want %d", doc.DateCreated, created.UnixNano())
	}
	doc.ID = primitive.NewObjectID()

	got := doc.toBolo()
	got.ID = ""
	if fields := bolo.Diff(got); len(fields) != 0 {
		t.Fatalf("round trip changed fields %v", fields)
	}
}

// Records are stamped with the wall clock, so the stored timestamp must keep
// sub-second precision for the insert round trip to leave date_created alone.
func TestBoloDocumentKeepsSubSecondPrecision(t *testing.T) {
	bolo := &domain.Bolo{
		Name:        "John Doe",
		Category:    "Robbery",
		Attachments: map[string]domain.Attachment{},
		DateCreated: time.Now().UTC(),
	}

	got := newBoloDocument(bolo).toBolo()
	got.ID = ""
	if fields := bolo.Diff(got); len(fields) != 0 {
		t.Fatalf("round trip changed fields %v (stamp %v vs %v)", fields, bolo.DateCreated, got.DateCreated)
	}
}

func TestBoloDocumentZeroDate(t *testing.T) {
	doc := newBoloDocument(&domain.Bolo{Name: "x", Category: "y"})
	if doc.DateCreated != 0 {
		t.Fatalf("zero time must store as 0, got %d", doc.DateCreated)
	}
	if !doc.toBolo().DateCreated.IsZero() {
		t.Fatalf("zero timestamp must map back to the zero time")
	}
}

func TestMergeAttachments(t *testing.T) {
	stored := map[string]attachmentDocument{
		"suspect.png": {ContentType: "image/png", Location: "blob/old", Size: 10},
		"notes.txt":   {ContentType: "text/plain", Location: "blob/notes", Size: 3},
	}
	supplied := map[string]attachmentDocument{
		"suspect.png": {ContentType: "image/png", Location: "blob/new", Size: 20},
		"map.pdf":     {ContentType: "application/pdf", Location: "blob/map", Size: 99},
	}

	merged := mergeAttachments(stored, supplied)
	if len(merged) != 3 {
		t.Fatalf("expected union of 3 names, got %v", merged)
	}
	if merged["suspect.png"].Location != "blob/new" {
		t.Fatalf("supplied entry must win per name: %+v", merged["suspect.png"])
	}
	if merged["notes.txt"].Location != "blob/notes" {
		t.Fatalf("stored-only entry must survive: %+v", merged["notes.txt"])
	}

	// Inputs stay untouched.
	if stored["suspect.png"].Location != "blob/old" || len(stored) != 2 {
		t.Fatalf("merge mutated the stored map: %v", stored)
	}
}

func TestMergeAttachments_Empty(t *testing.T) {
	if got := mergeAttachments(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	stored := map[string]attachmentDocument{"a": {Location: "blob/a"}}
	if got := mergeAttachments(stored, nil); len(got) != 1 || got["a"].Location != "blob/a" {
		t.Fatalf("nil supplied must keep stored set: %v", got)
	}
}

func TestNewRevUnique(t *testing.T) {
	a, b := newRev(), newRev()
	if a == "" || a == b {
		t.Fatalf("revision tokens must be distinct and non-empty: %q %q", a, b)
	}
}

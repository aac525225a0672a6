package converter

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	storageModel "github.com/BariVakhidov/guestlist/internal/storage/model"
)

func ToGuestFromStorage(g storageModel.Guest) models.Guest {
	return models.Guest{
		ID:          g.ID,
		EventID:     g.EventID,
		Name:        g.Name,
		Category:    g.Category,
		Phone:       g.Phone.String,
		Email:       g.Email.String,
		AccessToken: g.AccessToken,
		ShortCode:   g.ShortCode,
		CreatedAt:   g.CreatedAt,
	}
}

func ToGuestsFromStorage(storageGuests []storageModel.Guest) []models.Guest {
	guests := make([]models.Guest, len(storageGuests))
	for i, g := range storageGuests {
		guests[i] = ToGuestFromStorage(g)
	}

	return guests
}

func ToStorageGuest(g models.Guest) storageModel.Guest {
	return storageModel.Guest{
		ID:          g.ID,
		EventID:     g.EventID,
		Name:        g.Name,
		Category:    g.Category,
		Phone:       nullString(g.Phone),
		Email:       nullString(g.Email),
		AccessToken: g.AccessToken,
		ShortCode:   g.ShortCode,
		CreatedAt:   g.CreatedAt,
	}
}

func ToStorageGuestUpdate(u models.GuestUpdate) storageModel.GuestUpdate {
	var update storageModel.GuestUpdate
	if u.Name != nil {
		update.Name = sql.NullString{String: *u.Name, Valid: true}
	}
	if u.Category != nil {
		update.Category = sql.NullString{String: *u.Category, Valid: true}
	}
	if u.Phone != nil {
		update.SetPhone = true
		update.Phone = nullString(*u.Phone)
	}
	if u.Email != nil {
		update.SetEmail = true
		update.Email = nullString(*u.Email)
	}

	return update
}

func ToAdmissionFromStorage(a storageModel.Admission) models.Admission {
	return models.Admission{
		ID:         a.ID,
		GuestID:    a.GuestID,
		OperatorID: a.OperatorID,
		AdmittedAt: a.AdmittedAt,
	}
}

func ToAdmissionsFromStorage(storageAdmissions []storageModel.Admission) []models.Admission {
	admissions := make([]models.Admission, len(storageAdmissions))
	for i, a := range storageAdmissions {
		admissions[i] = ToAdmissionFromStorage(a)
	}

	return admissions
}

func ToScanDocument(r models.ScanRecord) storageModel.ScanDocument {
	doc := storageModel.ScanDocument{
		OperatorID: r.OperatorID,
		Token:      r.Token,
		Kind:       string(r.Kind),
		Error:      r.Error,
		ScannedAt:  r.ScannedAt,
	}
	if r.GuestID != uuid.Nil {
		doc.GuestID = r.GuestID.String()
	}

	return doc
}

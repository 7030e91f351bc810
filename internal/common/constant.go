package common

const (
	// MaxPhotos is the number of photo slots a letter has (slots 1..MaxPhotos).
	MaxPhotos = 3

	// MessageMinLength is the trimmed length a message body must reach to count
	// as written.
	MessageMinLength = 5

	// AdminID is the fixed identifier of the seeded, protected administrator.
	AdminID    = "ADMIN_FIXED"
	AdminName  = "Administrador"
	AdminPhone = "08019005012310"
	AdminEmail = "accionhonduras.org"

	// TimeLayout is how timestamps are stored in the local database.
	TimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

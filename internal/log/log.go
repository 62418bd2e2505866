package log

const (
	// FldFile is the name of the log field for storing file name information
	FldFile = "file"
	// FldPath is the name of the log field for storing path name information
	FldPath = "path"
	// FldTransport is the name of the log field for storing a transport name
	FldTransport = "transport"
	// FldVersion is the version number of the application
	FldVersion = "ver"
	// FldID is the ID of an entity used in the log entry
	FldID = "id"
	// FldName is the name of an entity used in the log entry
	FldName = "name"
	// FldVenue is the ID of the venue an operation works on
	FldVenue = "venue"
	// FldArtist is the ID of the artist an operation works on
	FldArtist = "artist"
	// FldSearch is a search term used in a search
	FldSearch = "search"
	// FldClient is the ID of the browser client flash messages are stored for
	FldClient = "client"
	// FldDriver is the database driver in use
	FldDriver = "driver"
	// FldMigration is the version number of a database migration
	FldMigration = "migration"
	// FldEndpoint is the name of the endpoint being called
	FldEndpoint = "endpoint"
	// FldMethod is the HTTP method of a request
	FldMethod = "method"
	// FldStatus is the HTTP status of a response
	FldStatus = "status"
)

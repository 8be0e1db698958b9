package common

// File permission constants shared by every writer in the tool
const (
	// FilePermissionSecure is used for the configuration file
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for the index file and placeholder notes
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for the configuration directory
	DirPermissionSecure = 0700

	// DirPermissionNormal is used for output directories
	DirPermissionNormal = 0755
)

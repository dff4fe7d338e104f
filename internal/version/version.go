// Package version holds the build identity embedded in logs and in the
// plaintext header of encrypted files.
package version

// ProgramName identifies this tool in logs and file headers.
const ProgramName = "aescrypt-desktop"

// Version is the release version. Release builds may override it with
// -ldflags "-X .../internal/version.Version=...".
var Version = "1.2.0"

// CreatedBy returns the value written into the CREATED_BY header extension
// of every file this program encrypts.
func CreatedBy() string {
	return ProgramName + " " + Version
}

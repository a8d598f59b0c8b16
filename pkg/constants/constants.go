// Package constants provides shared constants used throughout the rostermatch codebase.
// This includes the fixed export endpoints, local paths, timeouts, matching
// thresholds and file permissions that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the timeout for a single rating export request
	DefaultHTTPTimeout = 30 * time.Second

	// LockTimeout is how long the report writer waits for the output lock
	LockTimeout = 10 * time.Second

	// LockRetryDelay is the delay between attempts to take the output lock
	LockRetryDelay = 100 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Rating export endpoints
const (
	// RatingHost is the community tracker serving the rating exports
	RatingHost = "http://88.214.20.58/"

	// CTFExportURL is the capture-the-flag rating export
	CTFExportURL = RatingHost + "export_rating/ctf.json"

	// TDMExportURL is the team-deathmatch rating export
	TDMExportURL = RatingHost + "export_rating/tdm.json"

	// LookupURL is the prefix of the external player lookup page
	LookupURL = "https://qlstats.net/player/"
)

// Browser-like request headers sent to the rating host
const (
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	AcceptHeader   = "application/json, text/plain, */*"
	AcceptLanguage = "en-US,en;q=0.9"
)

// Path constants
const (
	// DefaultPlayersDir holds one description file per player
	DefaultPlayersDir = "src/content/players"

	// DefaultPlayersPattern selects description files inside DefaultPlayersDir
	DefaultPlayersPattern = "*.yaml"

	// DefaultOutputPath is where the matching report is written
	DefaultOutputPath = "steam_id_matching_report.md"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".rostermatch"

	// LockSuffix is appended to the report path for the advisory lock file
	LockSuffix = ".lock"
)

// Matching constants
const (
	// NameField is the description file prefix that carries the display name
	NameField = "name:"

	// MinPartialLength is the minimum normalized length of both names for a substring match
	MinPartialLength = 3

	// SimilarPrefixLength is the number of leading characters compared for a prefix match
	SimilarPrefixLength = 4

	// MinSimilarLength is the minimum normalized length of a remote name for a prefix match
	MinSimilarLength = 4

	// MaxListedCandidates caps the partial and similar lists in the report
	MaxListedCandidates = 5
)

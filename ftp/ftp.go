// Package ftp implements an FTP control/data protocol server: status
// codes, command verbs, the session state machine and its command
// handlers.
package ftp

// StatusCode is a type for FTP status codes
type StatusCode = int

const (
	// Positive Preliminary codes (1xx)
	StatusFileStatusOK StatusCode = 150 // File status okay; about to open data connection

	// Success codes (2xx)
	StatusCommandOK                       StatusCode = 200 // Command okay
	StatusFileStatus                      StatusCode = 213 // File status
	StatusNameSystemType                  StatusCode = 215 // NAME system type, where NAME is an official system name from the list in the Assigned Numbers document
	StatusServiceReadyForNewUser          StatusCode = 220 // Service ready for new user
	StatusServiceClosingControlConnection StatusCode = 221 // Service closing control connection
	StatusClosingDataConnection           StatusCode = 226 // Closing data connection; requested file action successful
	StatusEnteringPassiveMode             StatusCode = 227 // Entering Passive Mode (h1,h2,h3,h4,p1,p2)
	StatusEnteringExtendedPassiveMode     StatusCode = 229 // Entering Extended Passive Mode (|||port|)
	StatusUserLoggedIn                    StatusCode = 230 // User logged in, proceed
	StatusFileActionOK                    StatusCode = 250 // Requested file action okay, completed
	StatusPathnameCreated                 StatusCode = 257 // "PATHNAME" created

	// Positive Intermediate codes (3xx)
	StatusCommandNotImplementedSuperfluous StatusCode = 331 // User name okay, need password

	// Transient Negative Completion codes (4xx)
	StatusCantOpenDataConnection          StatusCode = 425 // Can't open data connection
	StatusConnectionClosedTransferAborted StatusCode = 426 // Connection closed; transfer aborted

	// Permanent Negative Completion codes (5xx)
	StatusSyntaxError     StatusCode = 500 // Syntax error, command unrecognized
	StatusNotLoggedIn     StatusCode = 530 // Not logged in
	StatusFileUnavailable StatusCode = 550 // Requested action not taken; File unavailable
)

// Command is an FTP command verb.
type Command = string

const (
	USER Command = "USER" // Send username
	PASS Command = "PASS" // Send password

	TYPE Command = "TYPE" // Set data transfer type (ASCII/Binary)

	RETR Command = "RETR" // Retrieve a file
	STOR Command = "STOR" // Store a file
	DELE Command = "DELE" // Delete a file
	CWD  Command = "CWD"  // Change working directory
	MKD  Command = "MKD"  // Make directory
	XMKD Command = "XMKD" // Make directory (extended version)
	RMD  Command = "RMD"  // Remove directory
	XRMD Command = "XRMD" // Remove directory (extended version)

	PASV Command = "PASV" // Enter passive mode
	EPSV Command = "EPSV" // Enter extended passive mode (RFC 2428)

	PWD  Command = "PWD"  // Print working directory
	XPWD Command = "XPWD" // Print working directory (extended version)
	LIST Command = "LIST" // List directory contents
	SYST Command = "SYST" // Get operating system type
	SIZE Command = "SIZE" // Get size of a file

	QUIT Command = "QUIT" // Disconnect from the server
)

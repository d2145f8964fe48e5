package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// sessionStamp orders session logs by name in a directory listing.
const sessionStamp = "20060102_150405"

// LogFilePath names the log file of one trackedit session, for example
// trackeditlogs/trackedit.20260212_213836.log. Every CLI invocation opens its
// own session log, stamped with the session start.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	name := fmt.Sprintf("%s.%s.log", appName, sessionStart.Format(sessionStamp))
	return filepath.Join(logsDir, name)
}

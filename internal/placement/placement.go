// Package placement derives the deterministic attachment locations for
// imported device exports. Every path is fully determined by the note's
// date, so imports for different dates can never collide.
package placement

import (
	"fmt"
	"path"
	"time"
)

// AttachmentsDir is the managed attachment area under the daily notes folder.
const AttachmentsDir = "Note_Attachments"

// Ext is the device export file extension.
const Ext = ".note"

// AttachmentDir returns the vault-relative folder that holds imports for the
// given date: <base>/Note_Attachments/<year>/<year>_<month>_<mon-abbrev>.
func AttachmentDir(base string, t time.Time) string {
	year := t.Format("2006")
	sub := fmt.Sprintf("%s_%s_%s", year, t.Format("01"), t.Format("Jan"))
	return path.Join(base, AttachmentsDir, year, sub)
}

// ImportedFile returns the final path of an imported export inside dir.
func ImportedFile(dir, key string) string {
	return path.Join(dir, key+Ext)
}

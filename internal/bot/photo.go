package bot

import (
	"os"
	"path/filepath"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// resolvePhoto turns a catalog photo reference into something telebot can
// send. URLs are fetched by Telegram, existing files (relative paths are
// taken from the catalog directory) are uploaded, anything else is treated
// as a file_id of a photo Telegram already has.
func resolvePhoto(ref, dir string) *tele.Photo {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return &tele.Photo{File: tele.FromURL(ref)}
	}
	path := ref
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, ref)
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return &tele.Photo{File: tele.FromDisk(path)}
	}
	return &tele.Photo{File: tele.File{FileID: ref}}
}

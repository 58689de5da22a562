package domain

import (
	"regexp"
	"strings"
)

var (
	driveIDRe   = regexp.MustCompile(`(?:/d/|id=)([-\w]{25,})`)
	thumbnailRe = regexp.MustCompile(`thumbnail\?id=`)
)

// DriveID extracts a Google Drive file id from a share or upload link.
func DriveID(url string) string {
	m := driveIDRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// PhotoCandidates returns the image URLs to try, in order, for a photo
// reference. Drive links expand to the thumbnail and direct-view variants
// since Drive serves some of them only to signed-in users.
func PhotoCandidates(url string) []string {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if thumbnailRe.MatchString(url) {
		return []string{url}
	}
	id := DriveID(url)
	if id == "" {
		return []string{url}
	}
	return []string{
		"https://drive.google.com/thumbnail?id=" + id + "&sz=w1600",
		"https://lh3.googleusercontent.com/d/" + id + "=w1600",
		"https://drive.google.com/uc?export=view&id=" + id,
		"https://drive.google.com/uc?export=download&id=" + id,
	}
}

package proctitle

import "strings"

// Default is the process title of the API server.
const Default = "jbest-eyes"

// maxLen is the kernel limit on a thread name, excluding the NUL byte.
const maxLen = 15

// normalize trims title and cuts it to maxLen bytes.
func normalize(title string) string {
	title = strings.TrimSpace(title)
	if len(title) > maxLen {
		title = title[:maxLen]
	}
	return title
}

package freecodecamp

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type FileMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// DescribeFile trusts the client supplied content type unless it is missing or generic, then sniffs head
func DescribeFile(name string, contentType string, size int64, head []byte) FileMetadata {
	contentType = strings.TrimSpace(contentType)

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(head).String()
	}

	return FileMetadata{Name: name, Type: contentType, Size: size}
}

func UploadForm(action string) string {
	return fmt.Sprintf(`<form action="%s" method="post" enctype="multipart/form-data">
	<input type="file" name="upfile" />
	<input type="submit" value="Upload" />
</form>
`, html.EscapeString(action))
}

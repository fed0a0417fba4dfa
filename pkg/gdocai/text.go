package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromProto extracts the full text from a Document AI proto.
// Line endings are normalized to "\n".
func textFromProto(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}
	return strings.ReplaceAll(doc.GetText(), "\r\n", "\n")
}

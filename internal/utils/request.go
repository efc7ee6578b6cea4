package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// IsFormRequest reports whether the client submitted an HTML form or asks for
// HTML. Such clients get redirects and form-error payloads instead of JSON
// status codes.
func IsFormRequest(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return c.NegotiateFormat(binding.MIMEJSON, binding.MIMEHTML) == binding.MIMEHTML
}

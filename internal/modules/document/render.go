package document

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkstone-app/inkstone/internal/models"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	),
)

// renderHTML answers ?format=html for note and prompt bodies. Bookmarks have
// no markdown body, so they fall back to the JSON shape.
func (h *Handler) renderHTML(c *gin.Context, doc *models.DocumentModel) {
	if doc.Type == models.DocTypeBookmark {
		response.OK(c, toResponse(doc))
		return
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(doc.Text), &buf); err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

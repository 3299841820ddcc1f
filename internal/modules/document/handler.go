package document

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkstone-app/inkstone/internal/models"
	"github.com/inkstone-app/inkstone/internal/pkg/pagination"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/documents")

	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PATCH("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

// GET /documents?type=prompt
func (h *Handler) list(c *gin.Context) {
	docType := models.DocType(c.Query("type"))
	if docType != "" && !models.ValidDocType(docType) {
		response.BadRequest(c, "unknown document type")
		return
	}

	docs, pag, err := h.svc.List(docType, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toResponse(&docs[i]))
	}
	response.Paged(c, out, pag)
}

// GET /documents/:id
func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.GetByID(c.Param("id"))
	if errors.Is(err, ErrDeleted) {
		response.Deleted(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if doc == nil {
		response.NotFound(c)
		return
	}

	if c.Query("format") == "html" {
		h.renderHTML(c, doc)
		return
	}
	response.OK(c, toResponse(doc))
}

// POST /documents
func (h *Handler) create(c *gin.Context) {
	var dto CreateDocumentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Name) == "" {
		response.UnprocessableEntity(c, "invalid document", map[string]string{"name": "name must not be empty"})
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), dto)
	if errors.Is(err, ErrNameTaken) {
		response.UnprocessableEntity(c, "invalid document", map[string]string{"name": "name already in use"})
		return
	}
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, toResponse(doc))
}

// PATCH /documents/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdateDocumentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		response.UnprocessableEntity(c, "invalid document", map[string]string{"name": "name must not be empty"})
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), dto)
	var conflict *ConflictError
	switch {
	case err == nil:
		response.OK(c, toResponse(doc))
	case errors.As(err, &conflict):
		response.Conflict(c, "document was modified by another client", toResponse(conflict.Current))
	case errors.Is(err, ErrDeleted):
		response.Deleted(c)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrNameTaken):
		response.UnprocessableEntity(c, "invalid document", map[string]string{"name": "name already in use"})
	default:
		response.BadRequest(c, err.Error())
	}
}

// DELETE /documents/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrDeleted):
		response.Deleted(c)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c)
	default:
		response.InternalError(c, err)
	}
}

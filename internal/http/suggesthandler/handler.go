package suggesthandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codepairgo/internal/services/suggest"
)

type AutocompleteBody struct {
	Code           string `json:"code"`
	CursorPosition int    `json:"cursorPosition"`
	Language       string `json:"language" example:"python"`
} // @name AutocompleteRequest

type AutocompleteResponse struct {
	Suggestion string `json:"suggestion"`
} // @name AutocompleteResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name AutocompleteErrorResponse

type Handler struct{}

func New() *Handler { return &Handler{} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/autocomplete", h.autocomplete)
}

// @Summary		Autocomplete suggestion
// @Description	Returns a heuristic completion for the text before the cursor.
// @Tags			Autocomplete
// @Param			body	body		AutocompleteBody	true	"Buffer and cursor"
// @Success		200		{object}	AutocompleteResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/autocomplete [post]
func (h *Handler) autocomplete(ginCtx *gin.Context) {
	var body AutocompleteBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if body.Language == "" {
		body.Language = "python"
	}

	s := suggest.Suggest(suggest.SuggestRequest{
		Code:           body.Code,
		CursorPosition: body.CursorPosition,
		Language:       body.Language,
	})
	ginCtx.JSON(http.StatusOK, AutocompleteResponse{Suggestion: s})
}

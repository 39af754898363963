package controllers

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

type RenderController struct {
	render *services.RenderService
}

func NewRenderController(render *services.RenderService) *RenderController {
	return &RenderController{render: render}
}

// Dispatch submits the item's video for GPU rendering.
func (c *RenderController) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	stem, err := c.render.Dispatch(r.Context(), id)
	if err != nil {
		fail(w, err, "Item or video not found")
		return
	}

	response.Success(w, map[string]string{"video_filename": stem})
}

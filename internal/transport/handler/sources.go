package handler

import (
	"net/http"

	"github.com/mizuki-f/topic-insight/internal/service"
	"github.com/mizuki-f/topic-insight/internal/transport/response"
)

// Sources lists the content sources registered in the pipeline
type Sources struct {
	service *service.Analyze
}

func NewSources(analyzeService *service.Analyze) *Sources {
	return &Sources{
		service: analyzeService,
	}
}

type sourcesResponse struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

func (h *Sources) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	names := h.service.SourceNames()
	response.WriteJSON(w, http.StatusOK, sourcesResponse{
		Sources: names,
		Count:   len(names),
	})
}

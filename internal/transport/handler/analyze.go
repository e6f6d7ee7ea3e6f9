package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/mizuki-f/topic-insight/internal/analysis"
	"github.com/mizuki-f/topic-insight/internal/repository"
	"github.com/mizuki-f/topic-insight/internal/service"
	"github.com/mizuki-f/topic-insight/internal/transport/response"
)

type Analyze struct {
	service *service.Analyze
}

func NewAnalyze(analyzeService *service.Analyze) *Analyze {
	return &Analyze{
		service: analyzeService,
	}
}

type analyzeRequest struct {
	Topic string `json:"topic"`
}

type analyzeResponse struct {
	Topic string `json:"topic"`
	*analysis.Result
}

func (h *Analyze) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "invalid JSON body")
		return
	}

	result, err := h.service.Run(r.Context(), req.Topic)
	if err != nil {
		h.writeAnalyzeError(w, logger, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, analyzeResponse{
		Topic:  strings.TrimSpace(req.Topic),
		Result: result,
	})
}

// writeAnalyzeError maps pipeline errors onto HTTP statuses. Upstream status
// codes and bodies stay in the logs only.
func (h *Analyze) writeAnalyzeError(w http.ResponseWriter, logger *log.Logger, err error) {
	var invalid *analysis.InvalidInputError
	if errors.As(err, &invalid) {
		response.WriteBadRequest(w, invalid.Error())
		return
	}

	var synthesis *repository.SynthesisError
	if errors.As(err, &synthesis) {
		logger.Printf("Error generating analysis: %v", synthesis)
		response.WriteInternalError(w, "analysis generation failed")
		return
	}

	var malformed *analysis.MalformedResponseError
	if errors.As(err, &malformed) {
		logger.Printf("Error parsing analysis response: %v", malformed)
		response.WriteInternalError(w, "analysis generation returned an unusable response")
		return
	}

	logger.Printf("Error running analysis: %v", err)
	response.WriteInternalError(w, "internal server error")
}

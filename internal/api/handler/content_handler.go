package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

// ContentHandler handles generation and publishing requests.
type ContentHandler struct {
	generation ports.GenerationService
	publishing ports.PublishService
}

func NewContentHandler(generation ports.GenerationService, publishing ports.PublishService) *ContentHandler {
	return &ContentHandler{generation: generation, publishing: publishing}
}

// Generate handles POST /v1/content/generate. The call is synchronous:
// the connection stays open while both upstream providers are called, so
// clients need a generous end-to-end timeout.
//
// @Summary      Generate multi-platform content for a prompt
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      generateRequest  true  "Prompt"
// @Success      200   {object}  generateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      502   {object}  generateResponse
// @Router       /v1/content/generate [post]
func (h *ContentHandler) Generate(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.generation.Generate(c.Request().Context(), userID, req.Prompt)
	if err != nil {
		// Upstream failures still created a job record; return its id so
		// the client can correlate the failure.
		if errors.Is(err, domain.ErrUpstream) && job != nil {
			return c.JSON(http.StatusBadGateway, generateResponse{
				Message: "Content generation failed: " + job.Error,
				JobID:   job.ID,
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, generateResponse{
		Success: true,
		Message: "Content generated successfully!",
		Job:     job,
	})
}

// Publish handles POST /v1/content/publish. Per-platform failures ride
// inside the results payload; the transport status is 200 once past the
// auth and ownership gates.
//
// @Summary      Publish a completed job to selected platforms
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      publishRequest  true  "Job id and target platforms"
// @Success      200   {object}  publishResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/content/publish [post]
func (h *ContentHandler) Publish(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	platforms := make([]domain.Platform, len(req.Platforms))
	for i, p := range req.Platforms {
		platforms[i] = domain.Platform(p)
	}

	report, err := h.publishing.Publish(c.Request().Context(), userID, req.JobID, platforms)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, publishResponse{
		Success: true,
		Message: fmt.Sprintf("Published: %d successful, %d failed", report.Successful, report.Failed),
		Results: report.Results,
	})
}

// ListJobs handles GET /v1/content/jobs: the caller's jobs, newest first.
//
// @Summary      List the caller's generation jobs
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        limit  query     int  false  "Max jobs to return (capped at 50)"
// @Success      200    {object}  jobListResponse
// @Failure      401    {object}  map[string]string
// @Router       /v1/content/jobs [get]
func (h *ContentHandler) ListJobs(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	jobs, err := h.generation.ListJobs(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []*domain.Job{}
	}
	return c.JSON(http.StatusOK, jobListResponse{Success: true, Jobs: jobs})
}

// GetJob handles GET /v1/content/jobs/:id, owner-scoped.
//
// @Summary      Get one generation job
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  jobResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/content/jobs/{id} [get]
func (h *ContentHandler) GetJob(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	job, err := h.generation.GetJob(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Success: true, Job: job})
}

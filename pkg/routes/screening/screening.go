package screening

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/juniper/internal/repositories/screeningreport"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/screening"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// Register registers screening routes
func Register(g *echo.Group) {
	g.POST("/documents/:documentID", Trigger)
	g.GET("/documents/:documentID/report", GetReportByDocument)
	g.GET("/reports/:id", GetReport)
	g.GET("/reports/:id/matches", ListMatches)
}

// Trigger starts the pipeline for a document. The run is asynchronous; poll
// the report endpoint for the outcome. The Kafka intake is the primary
// trigger, this route exists for manual reruns.
func Trigger(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "screening_handler.Trigger")
	defer span.End()

	documentID := c.Param("documentID")
	if documentID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "documentID is required")
	}

	ctx, orchestrator, err := ectoinject.GetContext[*screening.Orchestrator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get orchestrator")
	}
	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get logger")
	}

	go func() {
		// Detached from the request; the run outlives the HTTP response.
		runCtx := context.WithoutCancel(ctx)
		if err := orchestrator.ProcessDocument(runCtx, documentID); err != nil {
			logger.WithContext(runCtx).WithError(err).WithFields(map[string]any{
				"document_id": documentID,
			}).Error("Screening run failed")
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{
		"document_id": documentID,
		"status":      "accepted",
	})
}

// GetReport returns a report header by ID
func GetReport(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "screening_handler.GetReport")
	defer span.End()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*screeningreport.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	report, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

// GetReportByDocument returns the report header for a document
func GetReportByDocument(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "screening_handler.GetReportByDocument")
	defer span.End()

	documentID := c.Param("documentID")

	ctx, repo, err := ectoinject.GetContext[*screeningreport.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	report, err := repo.GetByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

// ListMatches returns the match records under a report, optionally filtered
// by investor category
func ListMatches(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "screening_handler.ListMatches")
	defer span.End()

	id := c.Param("id")
	category := models.InvestorCategory(c.QueryParam("category"))

	ctx, repo, err := ectoinject.GetContext[*screeningreport.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	matches, err := repo.ListMatchesByReport(ctx, id, category)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": matches,
		"count": len(matches),
	})
}

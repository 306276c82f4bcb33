package monthversary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleAdminSlides returns the full deck, drafts included, in display order.
func (a *App) handleAdminSlides(c echo.Context) error {
	slides, err := a.Store.ListSlides()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slides)
}

type createSlideRequest struct {
	Type            SlideType `json:"type"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"imageUrl"`
	BackgroundColor string    `json:"backgroundColor"`
	IsPublished     bool      `json:"isPublished"`
	Stats           []Stat    `json:"stats"`
}

func (a *App) handleCreateSlide(c echo.Context) error {
	var req createSlideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if !ValidSlideType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid slide type")
	}
	slide, err := a.Store.CreateSlide(Slide{
		Type:            req.Type,
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Content:         req.Content,
		ImageURL:        req.ImageURL,
		BackgroundColor: req.BackgroundColor,
		IsPublished:     req.IsPublished,
		Stats:           req.Stats,
	})
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, slide)
}

func (a *App) handleUpdateSlide(c echo.Context) error {
	var patch SlidePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if patch.Type != nil && !ValidSlideType(*patch.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid slide type")
	}
	slide, err := a.Store.UpdateSlide(c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Slide not found")
		}
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, slide)
}

func (a *App) handleDeleteSlide(c echo.Context) error {
	if err := a.Store.DeleteSlide(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Slide not found")
		}
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Slide deleted successfully"})
}

type reorderRequest struct {
	SlideIDs json.RawMessage `json:"slideIds"`
}

// handleReorder rewrites every listed slide's order to its positional index.
// A payload whose slideIds field is not an array is rejected before any
// state changes.
func (a *App) handleReorder(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	var ids []string
	// A nil slice after unmarshal means the field was JSON null, not [].
	if req.SlideIDs == nil || json.Unmarshal(req.SlideIDs, &ids) != nil || ids == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "slideIds must be an array")
	}
	if err := a.Store.ReorderSlides(ids); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Slides reordered successfully"})
}

type publishAllRequest struct {
	IsPublished bool `json:"isPublished"`
}

func (a *App) handlePublishAll(c echo.Context) error {
	var req publishAllRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := a.Store.SetAllPublished(req.IsPublished); err != nil {
		return err
	}
	a.Cache.Invalidate()
	msg := "All slides unpublished"
	if req.IsPublished {
		msg = "All slides published"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}

func (a *App) handleAdminSettings(c echo.Context) error {
	settings, err := a.Store.GetSettings()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (a *App) handleUpdateSettings(c echo.Context) error {
	var patch SettingsPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	settings, err := a.Store.UpdateSettings(patch)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, settings)
}

package handler

import (
	"net/http"

	"oss-matchmaker/internal/domain"

	"github.com/labstack/echo/v4"
)

type addSavedRequest struct {
	RepoFullName string         `json:"repoFullName" validate:"required"`
	RepoData     map[string]any `json:"repoData"`
	MatchScore   int            `json:"matchScore" validate:"gte=0,lte=100"`
	Notes        string         `json:"notes"`
}

type savedKeyRequest struct {
	RepoFullName string `json:"repoFullName" validate:"required"`
}

type updateSavedRequest struct {
	RepoFullName string `json:"repoFullName" validate:"required"`
	Notes        string `json:"notes"`
}

// AddSaved POST /saved/add
func (h *Handler) AddSaved(c echo.Context) error {
	var req addSavedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, "add_saved", err)
	}

	saved, err := h.saved.Add(c.Request().Context(), userID(c), domain.SavedRepo{
		RepoFullName: req.RepoFullName,
		RepoData:     req.RepoData,
		MatchScore:   req.MatchScore,
		Notes:        req.Notes,
	})
	if err != nil {
		return h.fail(c, "add_saved", err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":         "Repository saved successfully",
		"savedRepository": saved,
	})
}

// RemoveSaved POST /saved/remove
func (h *Handler) RemoveSaved(c echo.Context) error {
	var req savedKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, "remove_saved", err)
	}
	if err := h.saved.Remove(c.Request().Context(), userID(c), req.RepoFullName); err != nil {
		return h.fail(c, "remove_saved", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Repository removed successfully"})
}

// ListSaved GET /saved/list
func (h *Handler) ListSaved(c echo.Context) error {
	var opts domain.SavedListOptions
	if err := bindAndValidate(c, &opts); err != nil {
		return h.fail(c, "list_saved", err)
	}

	list, err := h.saved.List(c.Request().Context(), userID(c), opts)
	if err != nil {
		return h.fail(c, "list_saved", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"repositories": list,
		"total":        len(list),
	})
}

// UpdateSaved PUT /saved/update
func (h *Handler) UpdateSaved(c echo.Context) error {
	var req updateSavedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, "update_saved", err)
	}

	saved, err := h.saved.UpdateNotes(c.Request().Context(), userID(c), req.RepoFullName, req.Notes)
	if err != nil {
		return h.fail(c, "update_saved", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Repository updated successfully",
		"savedRepository": saved,
	})
}

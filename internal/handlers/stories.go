package handlers

import (
	"net/http"
	"strconv"
	"time"

	"travelstory/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errStartDateInvalid = "invalid 'startDate'; expected epoch milliseconds"
	errEndDateInvalid   = "invalid 'endDate'; expected epoch milliseconds"
)

// storyRequest is the payload for both create and edit. visitedDate is an
// epoch-millisecond value, as supplied by the client.
type storyRequest struct {
	Title           string   `json:"title" binding:"required"`
	Story           string   `json:"story" binding:"required"`
	VisitedLocation []string `json:"visitedLocation" binding:"required"`
	ImageURL        string   `json:"imageUrl"`
	VisitedDate     int64    `json:"visitedDate" binding:"required"`
}

type favouriteRequest struct {
	IsFavourite *bool `json:"isFavourite" binding:"required"`
}

func (r storyRequest) toParams() service.StoryParams {
	return service.StoryParams{
		Title:           r.Title,
		Story:           r.Story,
		VisitedLocation: r.VisitedLocation,
		ImageURL:        r.ImageURL,
		VisitedDateMs:   r.VisitedDate,
	}
}

// @Summary      Add a travel story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        body  body      storyRequest  true  "Story payload"
// @Success      201   {object}  map[string]interface{}  "story"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/stories [post]
// @Security     BearerAuth
func (h *Handler) createStory(c *gin.Context) {
	var req storyRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	story, err := h.services.Stories.Create(c.Request.Context(), userID(c), req.toParams())
	if err != nil {
		h.respondError(c, err, "story_create_failed", "user_id", userID(c))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"story": story})
}

// @Summary      List the user's travel stories, favourites first
// @Tags         stories
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "stories"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/stories [get]
// @Security     BearerAuth
func (h *Handler) listStories(c *gin.Context) {
	stories, err := h.services.Stories.List(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err, "story_list_failed", "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// @Summary      Edit a travel story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Story id"
// @Param        body  body      storyRequest  true  "Story payload"
// @Success      200   {object}  map[string]interface{}  "story"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/stories/{id} [put]
// @Security     BearerAuth
func (h *Handler) editStory(c *gin.Context) {
	var req storyRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	story, err := h.services.Stories.Edit(c.Request.Context(), c.Param("id"), userID(c), req.toParams())
	if err != nil {
		h.respondError(c, err, "story_edit_failed", "story_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"story": story})
}

// @Summary      Delete a travel story and its image
// @Tags         stories
// @Produce      json
// @Param        id  path  string  true  "Story id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/stories/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteStory(c *gin.Context) {
	if err := h.services.Stories.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		h.respondError(c, err, "story_delete_failed", "story_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "travel story deleted"})
}

// @Summary      Set the favourite flag of a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Story id"
// @Param        body  body      favouriteRequest  true  "Favourite payload"
// @Success      200   {object}  map[string]interface{}  "story"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/stories/{id}/favourite [put]
// @Security     BearerAuth
func (h *Handler) setFavourite(c *gin.Context) {
	var req favouriteRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	story, err := h.services.Stories.SetFavourite(c.Request.Context(), c.Param("id"), userID(c), *req.IsFavourite)
	if err != nil {
		h.respondError(c, err, "story_favourite_failed", "story_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"story": story})
}

// @Summary      Search the user's stories
// @Description  Case-insensitive substring match over title, text and location tags.
// @Tags         stories
// @Produce      json
// @Param        query  query     string  true  "Search query"
// @Success      200    {object}  map[string]interface{}  "stories"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/stories/search [get]
// @Security     BearerAuth
func (h *Handler) searchStories(c *gin.Context) {
	stories, err := h.services.Stories.Search(c.Request.Context(), userID(c), c.Query("query"))
	if err != nil {
		h.respondError(c, err, "story_search_failed", "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// @Summary      Filter stories by visit date range
// @Tags         stories
// @Produce      json
// @Param        startDate  query     int  true  "Range start, epoch milliseconds"
// @Param        endDate    query     int  true  "Range end, epoch milliseconds (inclusive)"
// @Success      200        {object}  map[string]interface{}  "stories"
// @Failure      400        {object}  map[string]string
// @Failure      401        {object}  map[string]string
// @Router       /api/v1/stories/filter [get]
// @Security     BearerAuth
func (h *Handler) filterStories(c *gin.Context) {
	startMs, err := strconv.ParseInt(c.Query("startDate"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartDateInvalid})
		return
	}
	endMs, err := strconv.ParseInt(c.Query("endDate"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEndDateInvalid})
		return
	}

	from := time.UnixMilli(startMs).UTC()
	to := time.UnixMilli(endMs).UTC()
	stories, err := h.services.Stories.FilterByDate(c.Request.Context(), userID(c), from, to)
	if err != nil {
		h.respondError(c, err, "story_filter_failed", "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

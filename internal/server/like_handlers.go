package server

import (
	"cafehub/internal/middleware"
	"cafehub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikeRequest is the body of the like and unlike calls.
type LikeRequest struct {
	CafeID uint `json:"cafe_id"`
}

// LikeStatusResponse answers GET /api/likes.
type LikeStatusResponse struct {
	Likes bool `json:"likes"`
}

// LikedResponse answers POST /api/like.
type LikedResponse struct {
	Liked uint `json:"liked"`
}

// UnlikedResponse answers POST /api/unlike.
type UnlikedResponse struct {
	Unliked uint `json:"unliked"`
}

var errBadCafeID = models.NewValidationError("cafe_id must be a positive integer")

// LikeStatus godoc
// @Summary Like status
// @Description Reports whether the logged-in user likes the cafe.
// @Tags likes
// @Produce json
// @Param cafe_id query int true "Cafe ID"
// @Success 200 {object} LikeStatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /likes [get]
func (s *Server) LikeStatus(c *fiber.Ctx, me *models.User) error {
	cafeID := c.QueryInt("cafe_id", 0)
	if cafeID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, errBadCafeID)
	}
	liked, err := s.likeService.Status(c.UserContext(), me.ID, uint(cafeID))
	if err != nil {
		return err
	}
	return c.JSON(LikeStatusResponse{Likes: liked})
}

// Like godoc
// @Summary Like a cafe
// @Description Likes a cafe. Liking an already liked cafe changes nothing.
// @Tags likes
// @Accept json
// @Produce json
// @Param request body LikeRequest true "Cafe to like"
// @Success 200 {object} LikedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /like [post]
func (s *Server) Like(c *fiber.Ctx, me *models.User) error {
	cafeID, ok := parseLikeRequest(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest, errBadCafeID)
	}
	if err := s.likeService.Like(c.UserContext(), me.ID, cafeID); err != nil {
		return err
	}
	middleware.LikeToggles.WithLabelValues("like").Inc()
	return c.JSON(LikedResponse{Liked: cafeID})
}

// Unlike godoc
// @Summary Unlike a cafe
// @Description Removes a like. Unliking a cafe that is not liked changes nothing.
// @Tags likes
// @Accept json
// @Produce json
// @Param request body LikeRequest true "Cafe to unlike"
// @Success 200 {object} UnlikedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /unlike [post]
func (s *Server) Unlike(c *fiber.Ctx, me *models.User) error {
	cafeID, ok := parseLikeRequest(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest, errBadCafeID)
	}
	if err := s.likeService.Unlike(c.UserContext(), me.ID, cafeID); err != nil {
		return err
	}
	middleware.LikeToggles.WithLabelValues("unlike").Inc()
	return c.JSON(UnlikedResponse{Unliked: cafeID})
}

func parseLikeRequest(c *fiber.Ctx) (uint, bool) {
	var req LikeRequest
	if err := c.BodyParser(&req); err != nil || req.CafeID == 0 {
		return 0, false
	}
	return req.CafeID, true
}

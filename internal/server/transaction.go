package server

import (
	"cafehub/internal/database"
	"cafehub/internal/middleware"
	"cafehub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Transactional opens one database transaction per request and exposes it
// through the request context. It commits only when the handler returned no
// error and the response status is below 400; every other exit rolls back.
func (s *Server) Transactional() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		ctx := c.UserContext()
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return models.NewInternalError(tx.Error)
		}
		c.SetUserContext(database.WithTx(ctx, tx))

		done := false
		defer func() {
			if done {
				return
			}
			// panic path
			tx.Rollback()
			if r := recover(); r != nil {
				panic(r)
			}
		}()

		err = c.Next()
		done = true

		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				middleware.Logger.WarnContext(ctx, "transaction rollback failed", "error", rbErr)
			}
			return err
		}

		if cerr := tx.Commit().Error; cerr != nil {
			return models.NewInternalError(cerr)
		}
		return nil
	}
}

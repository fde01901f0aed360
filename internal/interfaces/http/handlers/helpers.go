package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/middleware"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	return paginationWithDefault(c, utils.DefaultPageLimit)
}

// paginationWithDefault reads ?page and ?limit, using defaultLimit when
// limit is absent.
func paginationWithDefault(c *gin.Context, defaultLimit int) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return utils.GetPaginationParams(page, limit)
}

func respondPage(c *gin.Context, items interface{}, total int64, p utils.PaginationParams) {
	response.Paginated(c, http.StatusOK, items, utils.CalculateMeta(total, p.Page, p.Limit))
}

// uuidParam parses path parameter name, answering 400 itself on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("identificador inválido: "+name))
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuario no autenticado"))
		return uuid.Nil, false
	}
	return id, true
}

func currentActor(c *gin.Context) (usecases.Actor, bool) {
	id, ok := currentUserID(c)
	if !ok {
		return usecases.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return usecases.NewActor(id, role), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return false
	}
	return true
}

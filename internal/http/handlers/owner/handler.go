package owner

import (
	"errors"

	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 餐厅老板后台处理器，所有操作限定在令牌所属餐厅
type Handler struct {
	*provider.Container
}

// New 创建老板后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func restaurantID(c *gin.Context) (string, bool) {
	return handlershared.GetRestaurantID(c)
}

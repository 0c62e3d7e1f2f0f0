package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/jwtmiddleware"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
)

const genericErrorMessage = "Đã có lỗi xảy ra, vui lòng thử lại"

func credentials(c echo.Context) api.Credentials {
	token, _ := c.Get(jwtmiddleware.CtxToken).(string)
	return api.Credentials{Token: token}
}

func subject(c echo.Context) string {
	s, _ := c.Get(jwtmiddleware.CtxUserID).(string)
	return s
}

// respondAPIError surfaces an upstream failure once: the server's message
// when it sent one, the generic localized text otherwise.
func respondAPIError(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context())
	if apiErr, ok := api.AsError(err); ok {
		l.Warn("upstream error", "status", apiErr.Status, "error", apiErr.Message)
		return c.JSON(apiErr.Status, echo.Map{"error": apiErr.UserMessage()})
	}
	l.Error("request failed", "error", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": genericErrorMessage})
}

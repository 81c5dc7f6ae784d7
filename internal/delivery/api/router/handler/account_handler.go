package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"gatekeeper/internal/delivery/api/response"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the account lifecycle endpoints.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// MessageResponse is returned by operations that yield no account data.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// AccountResponse is the public view of an account with the token to keep using.
type AccountResponse struct {
	Message  string `json:"message"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Token    string `json:"token"`
}

// Register handles POST /api/register with username, password and jobTitle.
func (h *AccountHandler) Register(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	err = h.accountUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     payload["username"],
		Password: payload["password"],
		JobTitle: payload["jobTitle"],
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, MessageResponse{Message: "Registration successful! You can now log in."})
}

// Authenticate handles POST /api/auth and returns a bearer token.
func (h *AccountHandler) Authenticate(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	out, err := h.accountUC.Authenticate(c.Request().Context(), &usecase.AuthenticateInput{
		Name:     payload["username"],
		Password: payload["password"],
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, TokenResponse{Message: "Authentication successful", Token: out.Token})
}

// Status handles GET /api/status?token=.
func (h *AccountHandler) Status(c echo.Context) error {
	out, err := h.accountUC.Inspect(c.Request().Context(), &usecase.InspectInput{Token: c.QueryParam("token")})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, AccountResponse{
		Message:  "Token validated successfully",
		Name:     out.Name,
		JobTitle: out.JobTitle,
		Token:    out.Token,
	})
}

// Modify handles POST /api/modify with token, newName and newJobTitle.
func (h *AccountHandler) Modify(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	out, err := h.accountUC.Modify(c.Request().Context(), &usecase.ModifyInput{
		Token:       stringField(payload, "token"),
		NewName:     payload["newName"],
		NewJobTitle: payload["newJobTitle"],
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, AccountResponse{
		Message:  "Account updated successfully",
		Name:     out.Name,
		JobTitle: out.JobTitle,
		Token:    out.Token,
	})
}

// Delete handles POST /api/delete with token and confirm.
func (h *AccountHandler) Delete(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	err = h.accountUC.Delete(c.Request().Context(), &usecase.DeleteInput{
		Token:   stringField(payload, "token"),
		Confirm: truthy(payload["confirm"]),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, MessageResponse{Message: "User deleted successfully."})
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bindPayload reads a JSON or form body into a generic map. Values keep the
// shape the client sent so structured input reaches the sanitizer intact.
func bindPayload(c echo.Context) (map[string]any, error) {
	req := c.Request()

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		payload := map[string]any{}
		if err := c.Echo().JSONSerializer.Deserialize(c, &payload); err != nil {
			if errors.Is(err, io.EOF) {
				return payload, nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return nil, httpErr
			}

			return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed JSON body").SetInternal(err)
		}

		return payload, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed form body").SetInternal(err)
	}

	payload := make(map[string]any, len(params))
	for key, values := range params {
		switch len(values) {
		case 0:
		case 1:
			payload[key] = values[0]
		default:
			list := make([]any, len(values))
			for i, v := range values {
				list[i] = v
			}
			payload[key] = list
		}
	}

	return payload, nil
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)

	return s
}

// truthy interprets a confirmation flag from either a form or a JSON body.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "off", "no":
			return false
		}

		return true
	default:
		return true
	}
}

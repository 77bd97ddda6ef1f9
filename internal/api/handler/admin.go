package handler

import (
	"net/http"

	"github.com/mcoot/kickoff/internal/api/apierr"
	"github.com/mcoot/kickoff/internal/api/request"
	"github.com/mcoot/kickoff/internal/api/response"
	"github.com/mcoot/kickoff/internal/services/admin"
)

// AdminHandler handles admin login
type AdminHandler struct {
	gate *admin.Gate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(gate *admin.Gate) *AdminHandler {
	return &AdminHandler{gate: gate}
}

// Login handles POST /api/login. No session is issued; the client keeps
// the password and resends it with each privileged request.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	if err := h.gate.Verify(admin.ActionLogin, req.AdminPass); err != nil {
		status, apiErr := apierr.Describe(apierr.NewAdminPasswordError(http.StatusUnauthorized))
		response.JSON(w, status, response.LoginResponse{
			Success: false,
			Message: apiErr.Message,
			Error:   &apiErr,
		})
		return
	}

	response.OK(w, response.LoginResponse{Success: true, Message: "Logged in"})
}

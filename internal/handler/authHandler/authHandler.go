package authHandler

import (
	"errors"
	"net/http"

	"materials-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(r *gin.Engine) {
	r.GET("/api/teachers", h.ListTeachers)
	r.GET("/api/modules", h.ListModules)
	r.POST("/api/teacher-login", h.TeacherLogin)
	r.POST("/api/module-login", h.ModuleLogin)
	r.POST("/api/update-password", h.UpdatePassword)
}

type teacherLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) TeacherLogin(c *gin.Context) {
	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	name, subject, err := h.authService.VerifyTeacher(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// One message for unknown name and wrong password.
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "İstifadəçi adı və ya şifrə yanlışdır"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"subject": subject,
		"teacher": name,
	})
}

type moduleLoginRequest struct {
	Subject  string `json:"subject"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) ModuleLogin(c *gin.Context) {
	var req moduleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	err := h.authService.VerifyModule(c.Request.Context(), req.Subject, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrModuleNotFound):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Modul tapılmadı"})
	case err != nil:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "İstifadəçi adı və ya şifrə yanlışdır"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type updatePasswordRequest struct {
	Teacher         string `json:"teacher"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	err := h.authService.UpdateTeacherPassword(c.Request.Context(), req.Teacher, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Hazırki şifrə yanlışdır"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server xətası"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Şifrə uğurla yeniləndi"})
	}
}

// ListTeachers exposes display name to subject. Password hashes never leave
// the repository layer here.
func (h *AuthHandler) ListTeachers(c *gin.Context) {
	subjects := h.authService.TeacherSubjects(c.Request.Context())
	out := make(map[string]gin.H, len(subjects))
	for name, subject := range subjects {
		out[name] = gin.H{"subject": subject}
	}
	c.JSON(http.StatusOK, out)
}

// ListModules exposes subject code to module username, without hashes.
func (h *AuthHandler) ListModules(c *gin.Context) {
	usernames := h.authService.ModuleUsernames(c.Request.Context())
	out := make(map[string]gin.H, len(usernames))
	for subject, username := range usernames {
		out[subject] = gin.H{"username": username}
	}
	c.JSON(http.StatusOK, out)
}

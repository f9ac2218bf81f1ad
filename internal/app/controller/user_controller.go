package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/errors"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type UpdateProfileRequest struct {
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type AdminUpdateUserRequest struct {
	Nom      string         `json:"nom" binding:"required"`
	Prenom   string         `json:"prenom" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Role     model.UserRole `json:"role" binding:"required"`
	Password string         `json:"password"`
}

// GetProfile renvoie le profil de l'utilisateur connecté
// GET /api/users/profile
func (ctrl *UserController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.userService.GetProfile(userID)
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "Utilisateur introuvable")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile modifie nom et prénom
// PUT /api/users/profile
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Données de profil invalides")
		return
	}

	user, err := ctrl.userService.UpdateProfile(userID, service.ProfileUpdateInput{
		Nom:    req.Nom,
		Prenom: req.Prenom,
	})
	if err != nil {
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword change le mot de passe après vérification de l'actuel
// PUT /api/users/password
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Le nouveau mot de passe doit faire au moins 8 caractères")
		return
	}

	err := ctrl.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if stderrors.Is(err, service.ErrWrongPassword) {
			errors.BadRequest(c, errors.AuthInvalidCredentials, "Mot de passe actuel incorrect")
			return
		}
		log.Error("Failed to change password", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe modifié"})
}

// GetAllUsers liste les comptes pour le tableau de bord
// GET /api/users
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.userService.GetAllUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUser met à jour un compte depuis le tableau de bord. Le mot de
// passe n'est remplacé que s'il est fourni.
// PUT /api/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Nom, prénom, email et rôle sont requis")
		return
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleUtilisateur {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Rôle inconnu")
		return
	}

	user, err := ctrl.userService.UpdateUser(id, service.AdminUserUpdateInput{
		Nom:      req.Nom,
		Prenom:   req.Prenom,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "Utilisateur introuvable")
			return
		}
		log.Error("Failed to update user account", err, map[string]interface{}{
			"user_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser supprime un compte
// DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if currentID, _ := middleware.GetUserID(c); currentID == id {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Impossible de supprimer son propre compte")
		return
	}

	if err := ctrl.userService.DeleteUser(id); err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "Utilisateur introuvable")
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compte supprimé"})
}

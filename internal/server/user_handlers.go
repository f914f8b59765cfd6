package server

import (
	"socialapp/internal/models"
	"socialapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserByID handles GET /api/users/id/:id
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} object{success=bool,user=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/id/{id} [get]
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetUserProfile handles GET /api/users/:username
// @Summary Profile page
// @Description The user, their latest 50 posts and whether the caller follows them
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{success=bool,user=models.Profile,posts=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	res, err := s.userService.GetProfile(c.UserContext(), c.Params("username"), viewerID)
	if err != nil {
		return respondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    res.Profile,
		"posts":   res.Posts,
	})
}

// UpdateProfile handles PUT /api/users/profile
// @Summary Update the caller's profile
// @Description Omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{fullName=string,bio=string,profilePicture=string} true "Profile fields"
// @Success 200 {object} object{success=bool,message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		FullName       *string `json:"fullName"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profilePicture"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentUserID(c), service.UpdateProfileInput{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return respondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ToggleFollow handles POST /api/users/:username/follow
// @Summary Follow or unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} object{success=bool,message=string,isFollowing=bool,followersCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/follow [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	res, err := s.followService.ToggleFollow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondWithServiceError(c, err)
	}

	message := "Unfollowed successfully"
	if res.IsFollowing {
		message = "Followed successfully"
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        message,
		"isFollowing":    res.IsFollowing,
		"followersCount": res.FollowersCount,
	})
}

// GetFollowers handles GET /api/users/:username/followers
// @Summary Users following this user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{success=bool,users=[]models.User,total=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	users, err := s.userService.ListFollowers(c.UserContext(), c.Params("username"))
	return s.respondWithUsers(c, users, err)
}

// GetFollowing handles GET /api/users/:username/following
// @Summary Users this user follows
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{success=bool,users=[]models.User,total=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	users, err := s.userService.ListFollowing(c.UserContext(), c.Params("username"))
	return s.respondWithUsers(c, users, err)
}

func (s *Server) respondWithUsers(c *fiber.Ctx, users []models.User, err error) error {
	if err != nil {
		return respondWithServiceError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

package server

import (
	"socialapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Text, image URL or both; at least one is required
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string,image=string} true "Post content"
// @Success 201 {object} object{success=bool,message=string,post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: currentUserID(c),
		Text:   req.Text,
		Image:  req.Image,
	})
	if err != nil {
		return respondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPosts handles GET /api/posts
// @Summary Global feed
// @Description Newest posts first, at most 20
// @Tags posts
// @Produce json
// @Param limit query int false "Number of posts (max 20)"
// @Success 200 {object} object{success=bool,posts=[]models.Post,total=int}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListFeed(c.UserContext(), c.QueryInt("limit", service.DefaultFeedLimit))
	if err != nil {
		return respondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
		"total":   len(posts),
	})
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} object{success=bool,post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} object{success=bool,message=string,isLiked=bool,likesCount=int,post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	res, err := s.postService.ToggleLike(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondWithServiceError(c, err)
	}

	message := "Post unliked"
	if res.IsLiked {
		message = "Post liked"
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"isLiked":    res.IsLiked,
		"likesCount": res.LikesCount,
		"post":       res.Post,
	})
}

// AddComment handles POST /api/posts/:id/comment
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} object{success=bool,message=string,comment=models.Comment,commentsCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comment [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := s.postService.AddComment(c.UserContext(), c.Params("id"), currentUserID(c), req.Text)
	if err != nil {
		return respondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Comment added successfully",
		"comment":       res.Comment,
		"commentsCount": res.CommentsCount,
	})
}

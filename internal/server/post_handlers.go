package server

import (
	"dealboard/internal/models"
	"dealboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary Browse published posts
// @Tags posts
// @Produce json
// @Param q query string false "Free text search over title, content and tags"
// @Param tag query string false "Exact tag"
// @Param page query int false "Page number"
// @Param limit query int false "Posts per page (max 50)"
// @Success 200 {object} service.PostPage
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	result, err := s.postService.Browse(c.UserContext(), service.ListPostsInput{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
		Page:  page.Page,
		Limit: page.Limit,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /api/posts/:key where key is a numeric id or a slug.
// @Summary Get a published post by id or slug
// @Tags posts
// @Produce json
// @Param key path string true "Post id or slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{key} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body service.PostInput true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.PostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), currentSession(c), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body service.PostInput true "Post"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var req service.PostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Update(c.UserContext(), currentSession(c), id, req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post with its comments and likes
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.postService.Delete(c.UserContext(), currentSession(c), id); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAdminPosts handles GET /api/admin/posts
func (s *Server) GetAdminPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListAll(c.UserContext(), currentSession(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(posts)
}

// GetAdminPost handles GET /api/admin/posts/:id
func (s *Server) GetAdminPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	post, err := s.postService.GetForEdit(c.UserContext(), currentSession(c), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

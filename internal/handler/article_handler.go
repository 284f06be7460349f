package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eagle/internal/middleware"
	"eagle/internal/model"
	"eagle/internal/service"
)

// ArticleHandler serves article endpoints.
type ArticleHandler struct {
	service service.ArticleService
}

// NewArticleHandler constructs an ArticleHandler.
func NewArticleHandler(s service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: s}
}

// ArticleRequest is the JSON form of an article write. Multipart requests use the
// same field names plus "images" (0..5 files) and "video" (one file). The video link
// is read from "video_url" or, failing that, "videoUrl".
type ArticleRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Category      *string `json:"category"`
	VideoURL      *string `json:"video_url"`
	VideoURLCamel *string `json:"videoUrl,omitempty" swaggerignore:"true"`
}

func (r *ArticleRequest) videoURL() *string {
	if r.VideoURL != nil {
		return r.VideoURL
	}
	return r.VideoURLCamel
}

// ArticleResponse wraps a written article.
type ArticleResponse struct {
	Message string               `json:"message"`
	Article *service.ArticleView `json:"article"`
}

type articleForm struct {
	ArticleRequest
	images []*multipart.FileHeader
	video  *multipart.FileHeader
}

// List godoc
// @Summary List articles
// @Description Newest first. search matches title or content, author matches the author's username; both are case-insensitive substrings.
// @Tags articles
// @Produce json
// @Param search query string false "Search text"
// @Param author query string false "Author username"
// @Param category query string false "Category" Enums(sports, entertainment, politics, business, tech, other)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} service.ArticlePage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	page, limit := service.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	result, err := h.service.ListArticles(c.Request().Context(), service.ArticleFilter{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Author:   strings.TrimSpace(c.QueryParam("author")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get an article with its comments
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} service.ArticleView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid article ID")
	}

	article, err := h.service.GetArticle(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, article)
}

// Create godoc
// @Summary Publish an article
// @Description The video link may be sent as video_url or videoUrl; responses use video_url.
// @Tags articles
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ArticleRequest true "Article fields"
// @Success 201 {object} ArticleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	form, err := readArticleForm(c)
	if err != nil {
		return err
	}

	images, video, closeAll, err := openUploads(form)
	if err != nil {
		return err
	}
	defer closeAll()

	article, err := h.service.CreateArticle(c.Request().Context(), middleware.CurrentUser(c), service.ArticleInput{
		Title:    deref(form.Title),
		Content:  deref(form.Content),
		Category: deref(form.Category),
		VideoURL: deref(form.VideoURL),
		Images:   images,
		Video:    video,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, ArticleResponse{
		Message: "article created successfully",
		Article: article,
	})
}

// Update godoc
// @Summary Update an article
// @Description Partial update: only fields present in the request change. Uploading images replaces the whole image list.
// @Tags articles
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body ArticleRequest true "Fields to change"
// @Success 200 {object} ArticleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [put]
// @Router /articles/{id} [patch]
func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid article ID")
	}

	form, err := readArticleForm(c)
	if err != nil {
		return err
	}

	images, video, closeAll, err := openUploads(form)
	if err != nil {
		return err
	}
	defer closeAll()

	article, err := h.service.UpdateArticle(c.Request().Context(), middleware.CurrentUser(c), id, service.ArticleUpdate{
		Title:    form.Title,
		Content:  form.Content,
		Category: form.Category,
		VideoURL: form.VideoURL,
		Images:   images,
		Video:    video,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, ArticleResponse{
		Message: "article updated successfully",
		Article: article,
	})
}

// Delete godoc
// @Summary Delete an article and its comments
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid article ID")
	}

	if err := h.service.DeleteArticle(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "article deleted successfully"})
}

// readArticleForm reads either a multipart form or a JSON body. Only fields that are
// present end up non-nil.
func readArticleForm(c echo.Context) (*articleForm, error) {
	form := &articleForm{}
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		if err := c.Bind(&form.ArticleRequest); err != nil {
			return nil, badRequest("invalid request body")
		}
		form.VideoURL = form.videoURL()
		return form, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return nil, badRequest("invalid multipart form")
	}
	form.Title = formValue(mf, "title")
	form.Content = formValue(mf, "content")
	form.Category = formValue(mf, "category")
	form.VideoURL = formValue(mf, "video_url")
	if form.VideoURL == nil {
		form.VideoURL = formValue(mf, "videoUrl")
	}

	if files, ok := mf.File["images"]; ok {
		if len(files) > model.MaxArticleImages {
			return nil, badRequest("at most 5 images are allowed")
		}
		form.images = files
	}
	if files := mf.File["video"]; len(files) > 0 {
		form.video = files[0]
	}
	return form, nil
}

func formValue(mf *multipart.Form, key string) *string {
	values, ok := mf.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// openUploads opens the received files. A nil image slice means no images were sent.
func openUploads(form *articleForm) ([]service.Upload, *service.Upload, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	open := func(fh *multipart.FileHeader) (service.Upload, error) {
		f, err := fh.Open()
		if err != nil {
			return service.Upload{}, err
		}
		closers = append(closers, f)
		return service.Upload{Filename: fh.Filename, Content: f}, nil
	}

	var images []service.Upload
	if form.images != nil {
		images = make([]service.Upload, 0, len(form.images))
		for _, fh := range form.images {
			u, err := open(fh)
			if err != nil {
				closeAll()
				return nil, nil, nil, badRequest("could not read uploaded image")
			}
			images = append(images, u)
		}
	}

	var video *service.Upload
	if form.video != nil {
		u, err := open(form.video)
		if err != nil {
			closeAll()
			return nil, nil, nil, badRequest("could not read uploaded video")
		}
		video = &u
	}
	return images, video, closeAll, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

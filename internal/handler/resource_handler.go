package handler

import (
	"abhishek-coaching-go/internal/service"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultUploadBytes int64 = 10 << 20
	// multipartOverhead 是表单字段和分隔符预留的空间
	multipartOverhead int64 = 1 << 20
)

// ResourceHandler 负责处理学习资料相关的 API 请求。
type ResourceHandler struct {
	resourceService service.ResourceService
	maxBodyBytes    int64
}

// NewResourceHandler 创建一个新的 ResourceHandler 实例。
// maxUploadBytes 是单个文件的上限，<=0 时使用 10MB。
func NewResourceHandler(resourceService service.ResourceService, maxUploadBytes int64) *ResourceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultUploadBytes
	}
	return &ResourceHandler{
		resourceService: resourceService,
		maxBodyBytes:    maxUploadBytes + multipartOverhead,
	}
}

func (h *ResourceHandler) List(c *gin.Context) {
	resources, err := h.resourceService.List(c.Request.Context())
	if err != nil {
		respondError(c, "ListResources", err)
		return
	}
	respondOK(c, http.StatusOK, "success", resources)
}

// ListByCategory 返回某个分类下的资料。
func (h *ResourceHandler) ListByCategory(c *gin.Context) {
	resources, err := h.resourceService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, "ListResourcesByCategory", err)
		return
	}
	respondOK(c, http.StatusOK, "success", resources)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Resource not found")
	if !ok {
		return
	}
	resource, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetResource", err)
		return
	}
	respondOK(c, http.StatusOK, "success", resource)
}

// Download 重定向到资料的下载地址。
func (h *ResourceHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "Resource not found")
	if !ok {
		return
	}
	url, err := h.resourceService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, "DownloadResource", err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// bindResource 同时支持 JSON 和带 file 字段的 multipart 表单。
// multipart 请求体超过 maxBodyBytes 时返回 *http.MaxBytesError。
// 返回的 closeFn 必须在处理结束后调用。
func (h *ResourceHandler) bindResource(c *gin.Context) (service.ResourceInput, *service.FileUpload, func(), error) {
	var in service.ResourceInput
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, nil, noop, err
		}
		return in, nil, noop, nil
	}

	if c.Request.ContentLength > h.maxBodyBytes {
		return in, nil, noop, &http.MaxBytesError{Limit: h.maxBodyBytes}
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	c.Request.Body = body
	if err := c.ShouldBind(&in); err != nil {
		return in, nil, noop, bodyLimitErr(body, err)
	}
	fileHeader, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, noop, nil
	}
	if err != nil {
		return in, nil, noop, bodyLimitErr(body, err)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return in, nil, noop, err
	}
	upload := &service.FileUpload{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        f,
	}
	return in, upload, func() { _ = f.Close() }, nil
}

// bodyLimitErr 在请求体超限时返回超限错误，否则原样返回 err。
// 超限后 MaxBytesReader 的每次读取都返回同一个错误。
func bodyLimitErr(body io.Reader, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	if _, rerr := body.Read(make([]byte, 1)); errors.As(rerr, &tooLarge) {
		return tooLarge
	}
	return err
}

func (h *ResourceHandler) Create(c *gin.Context) {
	in, file, closeFn, err := h.bindResource(c)
	defer closeFn()
	if err != nil {
		respondBindError(c, "CreateResource", err)
		return
	}
	resource, err := h.resourceService.Create(c.Request.Context(), in, file)
	if err != nil {
		respondError(c, "CreateResource", err)
		return
	}
	respondOK(c, http.StatusCreated, "Resource created", resource)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Resource not found")
	if !ok {
		return
	}
	in, file, closeFn, err := h.bindResource(c)
	defer closeFn()
	if err != nil {
		respondBindError(c, "UpdateResource", err)
		return
	}
	resource, err := h.resourceService.Update(c.Request.Context(), id, in, file)
	if err != nil {
		respondError(c, "UpdateResource", err)
		return
	}
	respondOK(c, http.StatusOK, "Resource updated", resource)
}

// Delete 删除资料记录及其对象存储中的文件。
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Resource not found")
	if !ok {
		return
	}
	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteResource", err)
		return
	}
	respondOK(c, http.StatusOK, "Resource deleted", nil)
}

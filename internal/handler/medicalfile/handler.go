package medicalfile

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/service/medicalfile"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/httputil"
)

const (
	maxFilesPerUpload = 10
	maxFileSize       = 10 << 20 // 10MB
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

type Handler struct {
	svc *medicalfile.Service
}

func NewHandler(svc *medicalfile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Upload)
	r.POST("/upload", h.UploadSingle)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

// Upload accepts up to ten report files in one multipart request, all
// sharing the same metadata fields.
func (h *Handler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid upload request", err))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		httputil.RespondWithError(c, medicalfile.ErrNoFiles)
		return
	}
	if len(headers) > maxFilesPerUpload {
		httputil.RespondWithError(c, apperrors.BadRequest("Too many files. Maximum is 10 per upload", nil))
		return
	}

	files, err := readFiles(headers)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	meta, err := parseMeta(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.svc.Ingest(c.Request.Context(), user.ID, files, meta)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Files uploaded successfully",
		"files":   records,
	})
}

// UploadSingle is the older single-file endpoint. It runs through the same
// ingestion path as the batch endpoint and returns one record.
func (h *Handler) UploadSingle(c *gin.Context) {
	user := middleware.CurrentUser(c)

	header, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, medicalfile.ErrNoFiles)
		return
	}

	files, err := readFiles([]*multipart.FileHeader{header})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	meta, err := parseMeta(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.svc.Ingest(c.Request.Context(), user.ID, files, meta)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"file":    records[0],
	})
}

func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var memberID *uuid.UUID
	if raw := c.Query("memberId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("Invalid member ID", err))
			return
		}
		memberID = &id
	}

	records, err := h.svc.List(c.Request.Context(), user.ID, memberID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   records,
	})
}

func (h *Handler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid file ID", err))
		return
	}

	record, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file":    record,
	})
}

func (h *Handler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid file ID", err))
		return
	}

	var req model.UpdateMedicalFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid file data", err))
		return
	}

	record, err := h.svc.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File updated successfully",
		"file":    record,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid file ID", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted successfully",
	})
}

func readFiles(headers []*multipart.FileHeader) ([]medicalfile.UploadedFile, error) {
	files := make([]medicalfile.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxFileSize {
			return nil, apperrors.BadRequest("File too large. Maximum size is 10MB", nil)
		}

		contentType := header.Header.Get("Content-Type")
		if !allowedContentTypes[contentType] {
			return nil, apperrors.BadRequest("Only JPEG, PNG and PDF files are allowed", nil)
		}

		src, err := header.Open()
		if err != nil {
			return nil, apperrors.Internal("Failed to read uploaded file", err)
		}
		data, err := io.ReadAll(io.LimitReader(src, maxFileSize+1))
		src.Close()
		if err != nil {
			return nil, apperrors.Internal("Failed to read uploaded file", err)
		}
		if int64(len(data)) > maxFileSize {
			return nil, apperrors.BadRequest("File too large. Maximum size is 10MB", nil)
		}

		files = append(files, medicalfile.UploadedFile{
			Name:        header.Filename,
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		})
	}
	return files, nil
}

func parseMeta(c *gin.Context) (medicalfile.ReportMeta, error) {
	meta := medicalfile.ReportMeta{
		ReportType:   c.PostForm("reportType"),
		TestName:     c.PostForm("testName"),
		HospitalName: c.PostForm("hospitalName"),
		DoctorName:   c.PostForm("doctorName"),
		Notes:        c.PostForm("notes"),
		ReportDate:   time.Now().UTC(),
	}

	if raw := c.PostForm("reportDate"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid report date", err)
		}
		meta.ReportDate = date
	}

	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid price", err)
		}
		meta.Price = &price
	}

	if raw := c.PostForm("memberId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid member ID", err)
		}
		meta.MemberID = &id
	}

	if raw := c.PostForm("systolic"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid systolic value", err)
		}
		meta.Vitals.Systolic = &v
	}
	if raw := c.PostForm("diastolic"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid diastolic value", err)
		}
		meta.Vitals.Diastolic = &v
	}
	if raw := c.PostForm("bloodSugar"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return meta, apperrors.BadRequest("Invalid blood sugar value", err)
		}
		meta.Vitals.BloodSugar = &v
	}

	return meta, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

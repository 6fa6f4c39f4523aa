package Controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"Vistoria/AppErrors"
	"Vistoria/Checklist"
	"Vistoria/Models"
)

const thumbnailWidth = 300

// PhotoController stores inspection photos on disk and serves them on
// demand. The aggregation path never touches these files.
type PhotoController struct {
	DB       *gorm.DB
	Sessions *Checklist.Manager
	Dir      string
}

func NewPhotoController(db *gorm.DB, sessions *Checklist.Manager, dir string) *PhotoController {
	if dir == "" {
		dir = "InspectionPhotos"
	}
	return &PhotoController{DB: db, Sessions: sessions, Dir: dir}
}

// PhotoUploadRequest carries one base64-encoded photo for a screen.
type PhotoUploadRequest struct {
	Screen string `json:"tela"`
	Image  string `json:"image" validate:"required"` // base64, optionally data-URL prefixed
}

// Upload decodes the payload, writes the original plus a thumbnail, and
// appends the photo row to the inspection.
// POST /api/checklist/:id/photos
func (p *PhotoController) Upload(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var req PhotoUploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Image == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No image provided"})
	}

	// Strip a data:image/...;base64, prefix if present
	imageData := req.Image
	if idx := strings.Index(imageData, ","); idx != -1 {
		imageData = imageData[idx+1:]
	}

	imgBytes, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Invalid image encoding: %v", err)})
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Failed to decode image: %v", err)})
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare photo directory"})
	}

	fileName := uuid.NewString() + ".jpg"
	filePath := filepath.Join(p.Dir, fileName)
	if err := imaging.Save(img, filePath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(p.Dir, "thumb_"+fileName)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store thumbnail"})
	}

	photo := Models.InspectionPhoto{
		Screen:        req.Screen,
		FilePath:      filePath,
		ThumbnailPath: thumbPath,
		FileName:      fileName,
	}
	if err := p.Sessions.AddPhotos(id, []Models.InspectionPhoto{photo}); err != nil {
		os.Remove(filePath)
		os.Remove(thumbPath)
		return ctx.Status(AppErrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"inspection_id": id, "arquivo": fileName})
}

// ListPhotos returns the photo rows of one inspection (metadata only).
// GET /api/inspections/:id/photos
func (p *PhotoController) ListPhotos(ctx *fiber.Ctx) error {
	id, err := inspectionID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var photos []Models.InspectionPhoto
	if err := p.DB.Where("inspection_id = ?", id).Find(&photos).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve photos"})
	}
	return ctx.JSON(photos)
}

// GetPhoto serves one photo file on demand.
// GET /api/inspections/:id/photos/:photoId?thumb=1
func (p *PhotoController) GetPhoto(ctx *fiber.Ctx) error {
	photoID, err := strconv.ParseUint(ctx.Params("photoId"), 10, 32)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid photo ID"})
	}

	var photo Models.InspectionPhoto
	if err := p.DB.First(&photo, photoID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
	}

	path := photo.FilePath
	if thumb, _ := strconv.ParseBool(ctx.Query("thumb")); thumb && photo.ThumbnailPath != "" {
		path = photo.ThumbnailPath
	}
	return ctx.SendFile(path, true)
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"attendance/config"
	"attendance/models"
	"attendance/utils"

	"github.com/gin-gonic/gin"
)

type StudentAddRequest struct {
	Name  string `form:"name" binding:"required"`
	Class string `form:"class" binding:"required"`
}

// StudentAdd implements the add-identity flow: write the photo to
// <gallery>/<class>/<name>.jpg, upsert the student row and rebuild the
// gallery. The photo comes from the multipart upload or, if absent, from
// the latest camera frame.
func StudentAdd(c *gin.Context, user *models.User) {
	postReq := StudentAddRequest{}
	if err := c.ShouldBind(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !safePathPart(postReq.Name) || !safePathPart(postReq.Class) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name or class"})
		return
	}

	dir := filepath.Join(config.GALLERY_DIR, postReq.Class)
	if err := os.MkdirAll(dir, 0777); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	path := filepath.Join(dir, postReq.Name+".jpg")

	if file, err := c.FormFile("photo"); err == nil {
		if err = c.SaveUploadedFile(file, path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else {
		// No upload: capture the current camera frame, like the live
		// enrolment dialog
		frame, ok := pipe.Queue.Latest()
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no camera frame available"})
			return
		}
		data, err := utils.EncodeJPEG(frame.Image)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err = os.WriteFile(path, data, 0644); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	class, err := models.ClassGetOrCreate(postReq.Class)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if _, err = models.StudentUpsert(postReq.Name, class.ID, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	snap, err := galleryStore.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "gallery_size": len(snap.Identities)})
}

func GalleryReload(c *gin.Context, user *models.User) {
	snap, err := galleryStore.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "gallery_size": len(snap.Identities)})
}

func safePathPart(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\")
}
